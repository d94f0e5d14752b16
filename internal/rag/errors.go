package rag

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when an operation runs before Initialize
// completed. It is fatal for that call; no automatic retry.
var ErrNotReady = errors.New("rag: service not initialized")

// ValidationError reports malformed or missing input. It is surfaced
// before any I/O happens and must never be retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
