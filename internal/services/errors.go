// file: internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError represents a structured service error. Every failure surfaced
// by a service is one of these; the response layer maps the status code and
// message onto the wire.
type ServiceError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error { return e.Cause }

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// Error type identifiers
const (
	TypeValidation   = "VALIDATION_ERROR"
	TypeNotFound     = "NOT_FOUND"
	TypeForbidden    = "FORBIDDEN"
	TypeUnauthorized = "UNAUTHORIZED"
	TypeConflict     = "CONFLICT"
	TypeInternal     = "INTERNAL_ERROR"
	TypeUnavailable  = "SERVICE_UNAVAILABLE"
)

// NewValidationError creates a validation error (malformed or missing input)
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{Type: TypeValidation, Message: message, StatusCode: http.StatusBadRequest, Cause: cause}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Type: TypeNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// NewForbiddenError creates a forbidden error (authorization failure)
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{Type: TypeForbidden, Message: message, StatusCode: http.StatusForbidden}
}

// NewUnauthorizedError creates an unauthorized error (missing/invalid credential)
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{Type: TypeUnauthorized, Message: message, StatusCode: http.StatusUnauthorized}
}

// NewConflictError creates a conflict error (duplicate resource)
func NewConflictError(message string) *ServiceError {
	return &ServiceError{Type: TypeConflict, Message: message, StatusCode: http.StatusConflict}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{Type: TypeInternal, Message: message, StatusCode: http.StatusInternalServerError, Cause: cause}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string, cause error) *ServiceError {
	return &ServiceError{Type: TypeUnavailable, Message: message, StatusCode: http.StatusServiceUnavailable, Cause: cause}
}

// GetServiceError extracts a ServiceError from an error, or wraps it in a
// generic internal error.
func GetServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return NewInternalError("An unexpected error occurred", err)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Type == errorType
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool { return IsErrorType(err, TypeNotFound) }

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool { return IsErrorType(err, TypeValidation) }

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool { return IsErrorType(err, TypeForbidden) }

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool { return IsErrorType(err, TypeConflict) }
