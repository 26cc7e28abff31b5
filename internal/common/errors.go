// Package common defines shared sentinel errors and the typed application
// error used across service and transport layers. Callers should use
// errors.Is to match sentinels and errors.As to extract *AppError.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository/service-level errors.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")

	// Validation errors carry the offending field names via AppError.
	ErrValidation = errors.New("validation error")

	// Observation lifecycle errors.
	ErrInvalidTransition = errors.New("invalid transition")

	// Outbound mail collaborator failure.
	ErrMailDelivery = errors.New("mail delivery failed")
)

// AppError wraps one of the sentinel errors above with a human-readable
// message and, for validation failures, the list of offending field names.
// errors.Is(err, common.ErrValidation) etc. still works through Unwrap.
type AppError struct {
	kind    error
	Message string
	Fields  []string
}

func (e *AppError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Fields)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.kind
}

// Kind returns the sentinel the error was built from.
func (e *AppError) Kind() error {
	return e.kind
}

func NewValidationError(message string, fields ...string) *AppError {
	return &AppError{kind: ErrValidation, Message: message, Fields: fields}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{kind: ErrNotFound, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{kind: ErrUnauthorized, Message: message}
}

func NewInvalidTransitionError(message string) *AppError {
	return &AppError{kind: ErrInvalidTransition, Message: message}
}

func NewMailDeliveryError(message string) *AppError {
	return &AppError{kind: ErrMailDelivery, Message: message}
}
