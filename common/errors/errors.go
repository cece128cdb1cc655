package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to.
// Services return *Error for every expected failure; controllers translate it
// at the boundary and never inspect raw persistence errors themselves.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound reports an entity lookup miss, carrying the lookup key.
func NotFound(entity string, key interface{}) *Error {
	return New(http.StatusNotFound, fmt.Sprintf("%s not found: %v", entity, key), nil)
}

// Conflict reports a state conflict (insufficient stock, duplicate unique field).
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Validation reports an invalid request field or enum value.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// External reports a downstream dependency failure (payment provider, mail).
func External(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

// Internal wraps an unexpected error.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// From returns err as *Error, wrapping unexpected errors as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}

func IsConflict(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == http.StatusConflict
}

func IsValidation(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest
}
