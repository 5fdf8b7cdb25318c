// Package errors defines coded errors shared by services and the API layer.
//
// Services return *Error; handlers turn Code into an HTTP status and the
// response envelope's "code" field. Match kinds with Is:
//
//	if errors.Is(err, errors.ErrNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Is = errors.Is
	As = errors.As
)

// Code is the machine-readable kind of an Error.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeConflict         Code = "CONFLICT"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeInvalidSignature Code = "INVALID_SIGNATURE"
	CodeValidation       Code = "VALIDATION"
	CodeUnsupported      Code = "UNSUPPORTED"
	CodeUnprocessable    Code = "UNPROCESSABLE"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeInternal         Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeNotFound:         http.StatusNotFound,
	CodeAlreadyExists:    http.StatusConflict,
	CodeConflict:         http.StatusConflict,
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeInvalidSignature: http.StatusUnauthorized,
	CodeValidation:       http.StatusBadRequest,
	CodeUnsupported:      http.StatusUnsupportedMediaType,
	CodeUnprocessable:    http.StatusUnprocessableEntity,
	CodeRateLimited:      http.StatusTooManyRequests,
}

// HTTPStatus maps the code to a status. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a Code, a client-safe message and optional details such as
// per-field validation failures.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == e.Code
}

// HTTPStatus returns e.Code.HTTPStatus().
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithDetails copies e with details attached.
func (e *Error) WithDetails(details any) *Error {
	c := *e
	c.Details = details
	return &c
}

var (
	ErrNotFound         = New(CodeNotFound, "not found")
	ErrConflict         = New(CodeConflict, "conflict")
	ErrUnauthorized     = New(CodeUnauthorized, "unauthorized")
	ErrInvalidSignature = New(CodeInvalidSignature, "invalid signature")
	ErrValidation       = New(CodeValidation, "validation error")
	ErrUnsupported      = New(CodeUnsupported, "unsupported")
	ErrUnprocessable    = New(CodeUnprocessable, "unprocessable")
)

// New returns an Error of the given kind.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap returns an Error of the given kind whose cause is err.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

func NotFound(msg string) *Error { return New(CodeNotFound, msg) }

func NotFoundf(format string, args ...any) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

func Conflict(msg string) *Error { return New(CodeConflict, msg) }

func Unauthorized(msg string) *Error { return New(CodeUnauthorized, msg) }

// InvalidSignature is returned when a webhook signature does not verify.
func InvalidSignature(msg string) *Error { return New(CodeInvalidSignature, msg) }

func Validation(msg string) *Error { return New(CodeValidation, msg) }

func Validationf(format string, args ...any) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

// ValidationWithDetails is a validation error listing the offending fields.
func ValidationWithDetails(msg string, details any) *Error {
	return New(CodeValidation, msg).WithDetails(details)
}

// Unsupported is returned for transcript formats that cannot be parsed.
func Unsupported(msg string) *Error { return New(CodeUnsupported, msg) }

func Unprocessablef(format string, args ...any) *Error {
	return New(CodeUnprocessable, fmt.Sprintf(format, args...))
}
