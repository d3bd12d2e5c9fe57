package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by storage when no state has been saved yet.
	ErrNotFound = errors.New("state not found")
	// ErrNotConfirmed is returned when a destructive action lacks confirmation.
	ErrNotConfirmed = errors.New("action requires confirmation")
	// ErrUnknownTrack is returned for a recovery track other than porn or alcohol.
	ErrUnknownTrack = errors.New("unknown recovery track")
)

// ValidationError reports missing or invalid input. No state is changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps a storage read or write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeserializationError reports a saved blob that could not be parsed.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("corrupt saved state: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
