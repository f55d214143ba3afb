package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP-ish status code alongside a message and an optional
// wrapped cause. Handlers use the code to pick a response status; everything
// else treats it as a normal error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is maps AppError codes onto the package sentinels so callers can keep using
// errors.Is(err, ErrNotFound) etc. regardless of how the error was built.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrValidation:
		return e.Code == http.StatusBadRequest
	case ErrDuplicate:
		return e.Code == http.StatusConflict
	}
	return false
}

// NewAppError creates a generic AppError with the given code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError for a missing resource.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError for invalid input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewConflictError creates an AppError for a uniqueness conflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

// StatusCode returns the HTTP status most appropriate for err.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMalformedQuote):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrQuoteUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
