// Package apperrors defines the error taxonomy surfaced by the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status code alongside a client-safe message.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a missing or malformed field (400).
func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// Conflict reports a duplicate unique key such as an email or keyword (400).
func Conflict(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// Unauthorized reports missing or bad credentials (401).
func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

// Forbidden reports a role mismatch on an authorized route (403).
func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

// NotFound reports an id absent within the queried scope (404).
func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

// StatusCode returns the HTTP status for err, defaulting to 500.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err. Unknown errors map to a
// generic message so internals never leak into responses.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Server Error"
}
