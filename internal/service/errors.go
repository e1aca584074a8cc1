package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// It never reveals whether the username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrNotFound is returned for lookups of users or messages that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when an authenticated identity may not act on a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnknownUser is returned when a message names a recipient that is not registered.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreFailure wraps persistence errors; they are never retried.
	ErrStoreFailure = errors.New("store failure")
	// ErrExportUnavailable is returned when no object storage is configured.
	ErrExportUnavailable = errors.New("mailbox export is not configured")
)

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
