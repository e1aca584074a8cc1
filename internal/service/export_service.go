package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"messagely/internal/domain"
	"messagely/internal/repository"
	"messagely/internal/storage"
)

// ExportService snapshots a user's mailbox into object storage.
type ExportService interface {
	Export(ctx context.Context, identity, username string) (*domain.Export, error)
	ListExports(ctx context.Context, identity, username string) ([]storage.ObjectInfo, error)
	DeleteExports(ctx context.Context, identity, username string) error
}

// ExportConfig names the export destination.
type ExportConfig struct {
	Bucket    string
	KeyPrefix string
	URLTTL    time.Duration
}

type exportService struct {
	messages MessageService
	users    repository.UserRepository
	store    storage.Service
	cfg      ExportConfig
	now      func() time.Time
}

// NewExportService returns a service that reports ErrExportUnavailable for
// every call when store is nil or no bucket is configured.
func NewExportService(messages MessageService, users repository.UserRepository, store storage.Service, cfg ExportConfig) ExportService {
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &exportService{
		messages: messages,
		users:    users,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

type mailboxDocument struct {
	Username   string            `json:"username"`
	ExportedAt time.Time         `json:"exported_at"`
	Sent       []exportedMessage `json:"sent"`
	Received   []exportedMessage `json:"received"`
}

type exportedMessage struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

func (s *exportService) Export(ctx context.Context, identity, username string) (*domain.Export, error) {
	if !s.enabled() {
		return nil, ErrExportUnavailable
	}

	sent, err := s.messages.ListFrom(ctx, identity, username)
	if err != nil {
		return nil, err
	}
	received, err := s.messages.ListTo(ctx, identity, username)
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	doc := mailboxDocument{
		Username:   username,
		ExportedAt: createdAt,
		Sent:       toExported(sent),
		Received:   toExported(received),
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode mailbox: %w", err)
	}

	key := path.Join(s.userPrefix(username), uuid.NewString()+".json")
	location, err := s.store.PutObject(ctx, bytes.NewReader(payload), storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, storeFailure("upload export", err)
	}

	url, err := s.store.GetObjectURL(ctx, s.cfg.Bucket, key, s.cfg.URLTTL)
	if err != nil {
		return nil, storeFailure("presign export", err)
	}

	return &domain.Export{
		Key:       key,
		Location:  location,
		URL:       url,
		Messages:  len(sent) + len(received),
		CreatedAt: createdAt,
	}, nil
}

func (s *exportService) ListExports(ctx context.Context, identity, username string) ([]storage.ObjectInfo, error) {
	if !s.enabled() {
		return nil, ErrExportUnavailable
	}
	if err := authorizeMailbox(ctx, s.users, identity, username); err != nil {
		return nil, err
	}
	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, s.userPrefix(username)+"/")
	if err != nil {
		return nil, storeFailure("list exports", err)
	}
	return objects, nil
}

func (s *exportService) DeleteExports(ctx context.Context, identity, username string) error {
	if !s.enabled() {
		return ErrExportUnavailable
	}
	if err := authorizeMailbox(ctx, s.users, identity, username); err != nil {
		return err
	}
	if err := s.store.DeletePrefix(ctx, s.cfg.Bucket, s.userPrefix(username)+"/"); err != nil {
		return storeFailure("delete exports", err)
	}
	return nil
}

func (s *exportService) enabled() bool {
	return s.store != nil && s.cfg.Bucket != ""
}

func (s *exportService) userPrefix(username string) string {
	if s.cfg.KeyPrefix == "" {
		return username
	}
	return s.cfg.KeyPrefix + "/" + username
}

func toExported(msgs []domain.Message) []exportedMessage {
	out := make([]exportedMessage, len(msgs))
	for i, m := range msgs {
		out[i] = exportedMessage{
			ID:           m.ID,
			FromUsername: m.FromUsername,
			ToUsername:   m.ToUsername,
			Body:         m.Body,
			SentAt:       m.SentAt,
			ReadAt:       m.ReadAt,
		}
	}
	return out
}
