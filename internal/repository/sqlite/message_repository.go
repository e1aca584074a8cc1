package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"messagely/internal/domain"
	"messagely/internal/repository"
)

const selectMessages = `
SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
	f.username, f.first_name, f.last_name, f.phone,
	t.username, t.first_name, t.last_name, t.phone
FROM messages AS m
JOIN users AS f ON f.username = m.from_username
JOIN users AS t ON t.username = m.to_username`

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO messages (from_username, to_username, body, sent_at)
VALUES (?, ?, ?, ?)`,
		msg.FromUsername,
		msg.ToUsername,
		msg.Body,
		msg.SentAt,
	)
	if err != nil {
		if mapped := translateError(err); errors.Is(mapped, repository.ErrUnknownUser) {
			return 0, fmt.Errorf("message %s -> %s: %w", msg.FromUsername, msg.ToUsername, mapped)
		}
		return 0, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message last insert id: %w", err)
	}
	msg.ID = id
	return id, nil
}

func (r *MessageRepository) Get(ctx context.Context, id int64) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, selectMessages+`
WHERE m.id = ?`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}
	return msg, nil
}

func (r *MessageRepository) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx, selectMessages+`
WHERE m.from_username = ?
ORDER BY m.id ASC`, username)
}

func (r *MessageRepository) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx, selectMessages+`
WHERE m.to_username = ?
ORDER BY m.id ASC`, username)
}

func (r *MessageRepository) MarkRead(ctx context.Context, id int64, at time.Time) (*domain.Message, error) {
	if _, err := r.db.ExecContext(ctx, `
UPDATE messages SET read_at = ?
WHERE id = ? AND read_at IS NULL`, at.UTC(), id); err != nil {
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func scanMessage(row scanner) (*domain.Message, error) {
	var (
		msg    domain.Message
		readAt sql.NullTime
		from   domain.Profile
		to     domain.Profile
	)
	if err := row.Scan(
		&msg.ID,
		&msg.FromUsername,
		&msg.ToUsername,
		&msg.Body,
		&msg.SentAt,
		&readAt,
		&from.Username,
		&from.FirstName,
		&from.LastName,
		&from.Phone,
		&to.Username,
		&to.FirstName,
		&to.LastName,
		&to.Phone,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan message: %w", err)
	}
	if readAt.Valid {
		t := readAt.Time
		msg.ReadAt = &t
	}
	msg.FromUser = &from
	msg.ToUser = &to
	return &msg, nil
}
