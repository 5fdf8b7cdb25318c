package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/http/response"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// APIError is the huma.StatusError every handler failure becomes. The
// envelope transformer copies its fields into the response body.
type APIError struct { //nolint:revive // matches APIEnvelope
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Field errors or other context"`
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) GetStatus() int { return e.status }

func (e *APIError) ContentType(string) string { return "application/json" }

// FieldError is one rejected input reported by huma's own validation.
type FieldError struct {
	Location string `json:"location,omitempty" doc:"Where the error occurred, e.g. body.title"`
	Message  string `json:"message" doc:"What was wrong"`
	Value    any    `json:"value,omitempty" doc:"The offending value"`
}

// RegisterErrorHandler replaces huma.NewError. It must run before routes
// are registered.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var fields []FieldError
	for _, err := range errs {
		if apiErr := fromKnown(err); apiErr != nil {
			return apiErr
		}
		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			d := detailer.ErrorDetail()
			fields = append(fields, FieldError{Location: d.Location, Message: d.Message, Value: d.Value})
		}
	}

	apiErr := &APIError{status: status, Code: string(response.CodeForStatus(status)), Message: message}
	if len(fields) > 0 {
		apiErr.Details = fields
	}
	return apiErr
}

// fromKnown converts domain and store errors, or returns nil.
func fromKnown(err error) *APIError {
	var de *domainerrors.Error
	if errors.As(err, &de) {
		return &APIError{status: de.HTTPStatus(), Code: string(de.Code), Message: de.Message, Details: de.Details}
	}
	var se *store.Error
	if errors.As(err, &se) {
		status := se.HTTPCode()
		code := response.CodeForStatus(status)
		if status == http.StatusConflict {
			code = domainerrors.CodeAlreadyExists
		}
		return &APIError{status: status, Code: string(code), Message: se.Message}
	}
	return nil
}
