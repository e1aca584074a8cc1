package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"messagely/internal/domain"
	"messagely/internal/policy"
	"messagely/internal/repository"
)

// MessageService coordinates message operations on behalf of an
// authenticated identity. Every operation resolves the target first and
// authorizes second, so a missing resource is always ErrNotFound.
type MessageService interface {
	Send(ctx context.Context, identity, toUsername, body string) (*domain.Message, error)
	Get(ctx context.Context, identity string, id int64) (*domain.Message, error)
	MarkRead(ctx context.Context, identity string, id int64) (*domain.Message, error)
	ListFrom(ctx context.Context, identity, username string) ([]domain.Message, error)
	ListTo(ctx context.Context, identity, username string) ([]domain.Message, error)
}

type messageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository) MessageService {
	return &messageService{
		messages: messages,
		users:    users,
		now:      time.Now,
	}
}

func (s *messageService) Send(ctx context.Context, identity, toUsername, body string) (*domain.Message, error) {
	if identity == "" {
		return nil, ErrForbidden
	}
	toUsername = strings.TrimSpace(toUsername)
	if toUsername == "" {
		return nil, invalidInput("to_username is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, invalidInput("body is required")
	}

	msg := &domain.Message{
		FromUsername: identity,
		ToUsername:   toUsername,
		Body:         body,
		SentAt:       s.now().UTC(),
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrUnknownUser) {
			return nil, ErrUnknownUser
		}
		return nil, storeFailure("create message", err)
	}
	return msg, nil
}

func (s *messageService) Get(ctx context.Context, identity string, id int64) (*domain.Message, error) {
	msg, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(identity, msg) {
		return nil, ErrForbidden
	}
	return msg, nil
}

// MarkRead is idempotent: once read, later calls return the original read time.
func (s *messageService) MarkRead(ctx context.Context, identity string, id int64) (*domain.Message, error) {
	msg, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMarkRead(identity, msg) {
		return nil, ErrForbidden
	}
	if msg.IsRead() {
		return msg, nil
	}

	updated, err := s.messages.MarkRead(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("mark message read", err)
	}
	return updated, nil
}

func (s *messageService) ListFrom(ctx context.Context, identity, username string) ([]domain.Message, error) {
	if err := authorizeMailbox(ctx, s.users, identity, username); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListFrom(ctx, username)
	if err != nil {
		return nil, storeFailure("list sent messages", err)
	}
	return msgs, nil
}

func (s *messageService) ListTo(ctx context.Context, identity, username string) ([]domain.Message, error) {
	if err := authorizeMailbox(ctx, s.users, identity, username); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListTo(ctx, username)
	if err != nil {
		return nil, storeFailure("list received messages", err)
	}
	return msgs, nil
}

func (s *messageService) find(ctx context.Context, id int64) (*domain.Message, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("find message", err)
	}
	return msg, nil
}

func authorizeMailbox(ctx context.Context, users repository.UserRepository, identity, username string) error {
	if _, err := users.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storeFailure("find user", err)
	}
	if !policy.CanAccessMailbox(identity, username) {
		return ErrForbidden
	}
	return nil
}
