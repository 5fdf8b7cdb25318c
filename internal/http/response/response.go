// Package response writes the JSON error envelope for plain net/http
// handlers outside the huma API: the event stream, the rate limiter and
// router fallbacks.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// Version is the envelope format version, shared with the huma transformer.
const Version = 1

// Envelope is the body of every JSON response.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Error writes a failed envelope whose code is derived from status.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	write(w, status, string(CodeForStatus(status)), message, logger)
}

// Fail maps err to a status and code. Domain and store errors carry their
// own; anything else is logged and answered with a generic 500.
func Fail(w http.ResponseWriter, err error, logger *slog.Logger) {
	var de *domainerrors.Error
	if errors.As(err, &de) {
		write(w, de.HTTPStatus(), string(de.Code), de.Message, logger)
		return
	}
	var se *store.Error
	if errors.As(err, &se) {
		Error(w, se.HTTPCode(), se.Message, logger)
		return
	}
	if logger != nil {
		logger.Error("unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, "internal server error", logger)
}

// CodeForStatus maps an HTTP status to the closest domain error code.
func CodeForStatus(status int) domainerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return domainerrors.CodeUnauthorized
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	case http.StatusUnsupportedMediaType:
		return domainerrors.CodeUnsupported
	case http.StatusUnprocessableEntity:
		return domainerrors.CodeUnprocessable
	case http.StatusTooManyRequests:
		return domainerrors.CodeRateLimited
	}
	if status >= 500 {
		return domainerrors.CodeInternal
	}
	return domainerrors.CodeValidation
}

func write(w http.ResponseWriter, status int, code, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Envelope{Version: Version, Error: message, Code: code})
	if err != nil && logger != nil {
		logger.Debug("write error envelope", "error", err)
	}
}
