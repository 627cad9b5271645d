package store

import (
	"errors"
	"fmt"
)

// Error taxonomy. ErrValidation and ErrNotFound are detected locally and
// never sent to the backend; ErrRemote wraps any backend rejection and is
// not retried. Handlers translate these to HTTP codes and short messages.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrAuthRequired = errors.New("authentication required")
	ErrRemote       = errors.New("remote store failure")
)

// ValidationError carries the user-facing message for a rejected input.
// It matches ErrValidation under errors.Is.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string        { return e.Msg }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func validationErr(format string, args ...any) error {
	return Validationf(format, args...)
}

func remoteErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
}
