package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, unknown career).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a unique key.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")

// ErrUpstream is returned when the geocoding provider is unavailable or
// returns no candidates for an address. The triggering save is aborted.
var ErrUpstream = errors.New("upstream failure")

// ErrIntegrityDrift is returned by the average cost recompute when the owning
// camp no longer exists. Callers log it; it is never surfaced to a client.
var ErrIntegrityDrift = errors.New("integrity drift")

// FieldViolation is a single failed rule on a single field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one message per offending field.
// It unwraps to ErrValidation so callers can use errors.Is.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Messages returns the violation messages in field order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

// ConflictError names the unique field a write collided on.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s field must be unique", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ReferencedError reports a delete refused because other records still
// point at the target. Field names the referencing collection.
type ReferencedError struct {
	Field string
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("still referenced by %s", e.Field)
}

func (e *ReferencedError) Unwrap() error { return ErrConflict }
