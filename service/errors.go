package service

import (
	"errors"
	"fmt"

	"aoba/database"
)

var (
	// ErrNotFound means a guild, custom command or balance record is absent
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName means a command name is already taken by another handler
	ErrDuplicateName = errors.New("duplicate command name")

	// ErrPersistenceUnavailable means the database could not be reached
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrInvalidArgument means a command argument failed validation
	ErrInvalidArgument = errors.New("invalid argument")
)

// UserError is an error whose message is meant to be shown to the invoking user.
type UserError struct {
	message string
	err     error
}

// NewUserError wraps a sentinel error with a user-facing message
func NewUserError(err error, format string, args ...any) *UserError {
	return &UserError{message: fmt.Sprintf(format, args...), err: err}
}

func (e *UserError) Error() string {
	return e.message
}

func (e *UserError) Unwrap() error {
	return e.err
}

// UserMessage returns the text to reply with
func (e *UserError) UserMessage() string {
	return e.message
}

// storageError wraps a repository failure, tagging connection problems with ErrPersistenceUnavailable
func storageError(action string, err error) error {
	if database.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", action, ErrPersistenceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
