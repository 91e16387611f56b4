package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ValidationError represents a validation failure with field-level details.
// Violations are ordered "field: message" strings, one per violated rule.
type ValidationError struct {
	Violations []string
}

// NewValidationError creates a new validation error
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{
		Violations: violations,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, ", "))
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Messages returns the client-facing violation list
func (e *ValidationError) Messages() []string {
	return e.Violations
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       int64
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// HTTPStatus returns the HTTP status code for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// Messages returns the client-facing error list
func (e *NotFoundError) Messages() []string {
	return []string{e.Error()}
}

// ConflictError represents a uniqueness constraint violation
type ConflictError struct {
	Resource string
	Field    string
}

// NewConflictError creates a new conflict error
func NewConflictError(resource, field string) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Field:    field,
	}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Resource, e.Field)
}

// HTTPStatus returns the HTTP status code for this error.
// This API reports conflicts as 400, not 409.
func (e *ConflictError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Messages returns the client-facing error list
func (e *ConflictError) Messages() []string {
	return []string{e.Error()}
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// Messages returns the client-facing error list.
// The wrapped cause is not exposed to clients.
func (e *InternalError) Messages() []string {
	return []string{e.Message}
}

// HTTPStatuser interface for errors that carry their own HTTP status
// and client-facing message list.
type HTTPStatuser interface {
	error
	HTTPStatus() int
	Messages() []string
}
