package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the HTTP layer.
type Kind int

const (
	// KindInternal is any unexpected failure, including storage errors.
	KindInternal Kind = iota
	// KindValidation is missing or invalid required input.
	KindValidation
	// KindConflict is a uniqueness violation such as a duplicate email.
	KindConflict
	// KindAuth is an unknown user or a bad password.
	KindAuth
	// KindNotFound is an unknown record on lookup.
	KindNotFound
)

// AppError is a classified error carrying the message shown to clients.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Conflict creates a conflict error.
func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// Auth creates an authentication error.
func Auth(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

// NotFound creates a not-found error.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Internal wraps err with the failed operation, e.g. "Registration failed".
// The raw cause is part of the client-visible message.
func Internal(operation string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: operation, Err: err}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &HTTPError{StatusCode: appErr.StatusCode(), Message: appErr.Error()}
	}
	return &HTTPError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
}
