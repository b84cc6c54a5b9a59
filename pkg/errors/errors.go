package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched with errors.Is across the storage engines.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// NotFoundBy creates a 404 error for a lookup on a field other than the id.
func NotFoundBy(resource, field, value string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with %s %q not found", resource, field, value),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// StorageUnavailable creates a 503 error for a backing store that cannot be reached.
// The cause is kept for logging and errors.Is against ErrServiceUnavail still holds.
func StorageUnavailable(err error) *AppError {
	return &AppError{
		Code:    "STORAGE_UNAVAILABLE",
		Message: "storage is temporarily unavailable",
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrServiceUnavail, err),
	}
}

// From converts any error into an AppError. An AppError anywhere in the
// chain is returned as is; bare sentinels get a generic client-safe message.
// Anything else becomes a 500 that keeps err as its cause.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return &AppError{Code: "NOT_FOUND", Message: "resource not found", Status: http.StatusNotFound, Err: err}
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return &AppError{Code: "ALREADY_EXISTS", Message: "resource already exists", Status: http.StatusConflict, Err: err}
	case errors.Is(err, ErrInvalidInput):
		return &AppError{Code: "INVALID_INPUT", Message: err.Error(), Status: http.StatusBadRequest, Err: err}
	case errors.Is(err, ErrServiceUnavail):
		return &AppError{Code: "SERVICE_UNAVAILABLE", Message: "service temporarily unavailable", Status: http.StatusServiceUnavailable, Err: err}
	default:
		return Internal(err)
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	return From(err).Status
}
