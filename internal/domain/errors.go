package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrValidation           = errors.New("validation error")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidState         = errors.New("invalid state for operation")
	ErrExternalCollaborator = errors.New("external collaborator failure")
	ErrStorage              = errors.New("storage unavailable")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// TransitionError reports an illegal status transition attempt. It carries
// the status the occurrence was actually in, so callers can distinguish
// "already finalized" from "not yet analyzed".
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
}

// Unwrap maps attempts out of a terminal or wrong state to ErrInvalidState
// and everything else to ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	if e.To == StatusFinalized {
		return ErrInvalidState
	}
	return ErrInvalidTransition
}
