package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"messagely/internal/auth"
	"messagely/internal/domain"
	"messagely/internal/policy"
	"messagely/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// TokenIssuer mints bearer tokens for authenticated usernames.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	RegisterAndIssue(ctx context.Context, in RegisterInput) (string, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
	UpdateLastLogin(ctx context.Context, username string) (time.Time, error)
	Login(ctx context.Context, username, password string) (string, error)
	Get(ctx context.Context, identity, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.Profile, error)
}

type userService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer
	now    func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if !usernamePattern.MatchString(in.Username) {
		return nil, invalidInput("username must be 1-64 letters, digits, '.', '_' or '-'")
	}
	if in.Password == "" {
		return nil, invalidInput("password is required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, invalidInput(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		JoinedAt:     s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, storeFailure("create user", err)
	}

	return sanitizeUser(user), nil
}

func (s *userService) RegisterAndIssue(ctx context.Context, in RegisterInput) (string, error) {
	user, err := s.Register(ctx, in)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Username)
}

// Authenticate reports whether the password matches the stored digest. An
// unknown username yields false after a comparison of the same cost, so the
// caller cannot tell the two cases apart. Only store failures are errors.
func (s *userService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.placeholderDigest())
			return false, nil
		}
		return false, storeFailure("find user", err)
	}
	return s.hasher.Verify(password, user.PasswordHash), nil
}

func (s *userService) UpdateLastLogin(ctx context.Context, username string) (time.Time, error) {
	at, err := s.users.UpdateLastLogin(ctx, username, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, storeFailure("update last login", err)
	}
	return at, nil
}

// Login authenticates, mints a token and records the login time. Failed
// attempts never touch the login timestamp.
func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", err
	}
	if _, err := s.UpdateLastLogin(ctx, username); err != nil {
		return "", err
	}
	return token, nil
}

func (s *userService) Get(ctx context.Context, identity, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("find user", err)
	}
	if !policy.CanAccessMailbox(identity, user.Username) {
		return nil, ErrForbidden
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.Profile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeFailure("list users", err)
	}
	profiles := make([]domain.Profile, len(users))
	for i := range users {
		profiles[i] = users[i].Profile()
	}
	return profiles, nil
}

func (s *userService) placeholderDigest() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("placeholder-password")
		if err == nil {
			s.dummyDigest = digest
		}
	})
	return s.dummyDigest
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
