package service

import (
	"errors"
	"fmt"
)

// External collaborators (completion API, webhook, notes workspace) fail
// under ErrExternal; those failures are surfaced to the caller and never
// retried here.
var (
	ErrExternal      = errors.New("external service failure")
	ErrGenerating    = errors.New("generation already in progress")
	ErrNotConfigured = errors.New("service not configured")
)

func externalErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrExternal, err)
}

func externalErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExternal, fmt.Sprintf(format, args...))
}
