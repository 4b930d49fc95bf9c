package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses at the handler boundary.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller's identity is known but insufficient.
	ErrForbidden = errors.New("forbidden")

	// ErrSlotUnavailable means the slot was missing, in the past, or lost
	// to a concurrent claim. The enclosing transaction must roll back.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrSlotBooked means a booked slot was targeted for deletion.
	ErrSlotBooked = errors.New("booked slot cannot be deleted")

	// ErrEmailTaken means the signup email already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials means email/password verification failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries field-level detail for malformed input.
// Validation always happens before any transaction opens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
