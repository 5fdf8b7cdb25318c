package store

import (
	"errors"
	"net/http"
)

// Error is returned by Store implementations. Code is the HTTP status the
// API layer maps it to.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a store error of the same kind. The message
// is ignored, so errors.Is(NotFound("video"), ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == e.Code
}

// HTTPCode returns the status code for the error kind.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage copies e with a different message.
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

// WithCause copies e wrapping err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

var (
	ErrNotFound      = &Error{Code: http.StatusNotFound, Message: "not found"}
	ErrAlreadyExists = &Error{Code: http.StatusConflict, Message: "already exists"}
	ErrInvalidInput  = &Error{Code: http.StatusBadRequest, Message: "invalid input"}
)

// NotFound reports a missing video, transcript or chapter set.
func NotFound(entity string) *Error {
	return ErrNotFound.WithMessage(entity + " not found")
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error {
	return ErrAlreadyExists.WithMessage(msg)
}
