package repository

import (
	"context"
	"time"

	"messagely/internal/domain"
)

// MessageRepository persists messages and resolves them together with the
// profiles of both endpoints.
type MessageRepository interface {
	// Create assigns the id and fails with ErrUnknownUser when either
	// endpoint is not a registered user.
	Create(ctx context.Context, msg *domain.Message) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Message, error)
	ListFrom(ctx context.Context, username string) ([]domain.Message, error)
	ListTo(ctx context.Context, username string) ([]domain.Message, error)
	// MarkRead sets read_at only when it is still unset and returns the
	// stored message either way.
	MarkRead(ctx context.Context, id int64, at time.Time) (*domain.Message, error)
}
