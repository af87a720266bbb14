package apperror

import (
	"errors"
	"net/http"
)

// Error is a service-level error carrying the HTTP status the boundary
// should answer with. Services return these; controllers map them onto
// the response envelope without inspecting message text.
type Error struct {
	Status  int
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
}

func Validation(message string) *Error { return New(http.StatusBadRequest, message) }

func NotFound(message string) *Error { return New(http.StatusNotFound, message) }

func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }

func Internal(message string) *Error { return New(http.StatusInternalServerError, message) }

// StatusOf returns the HTTP status for err, defaulting to 500 for
// anything that is not an *Error.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == status
}
