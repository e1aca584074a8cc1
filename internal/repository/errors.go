package repository

import "errors"

var (
	// ErrNotFound is returned when a user or message lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint rejects an insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownUser is returned when a message references a missing user.
	ErrUnknownUser = errors.New("unknown user")
)
