package repository

import (
	"context"
	"time"

	"messagely/internal/domain"
)

// UserRepository is the credential store: username to password hash and
// profile fields, with no business rules of its own.
type UserRepository interface {
	// Create fails with ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateLastLogin fails with ErrNotFound when no such user exists.
	UpdateLastLogin(ctx context.Context, username string, at time.Time) (time.Time, error)
	List(ctx context.Context) ([]domain.User, error)
}
