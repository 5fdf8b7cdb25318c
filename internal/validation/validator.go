// Package validation checks service inputs with validator/v10. Failures come
// back as a domain validation error whose details map JSON field names to
// messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/transcript"
)

// domainTag is a custom validation tag. Empty values pass so tags combine
// with omitempty.
type domainTag struct {
	valid   func(string) bool
	message string
}

var domainTags = map[string]domainTag{
	"provider": {
		valid:   func(s string) bool { return domain.Provider(s).Valid() },
		message: "must be one of: cloudflare mux upload",
	},
	"video_status": {
		valid:   func(s string) bool { return domain.VideoStatus(s).Valid() },
		message: "must be one of: pending processing ready errored",
	},
	"transcript_format": {
		valid: func(s string) bool {
			_, err := transcript.ParseFormat(s)
			return err == nil
		},
		message: "must be one of: text srt vtt deepgram json3",
	},
}

// paramMessages are templates for built-in tags; %s is the tag parameter.
var paramMessages = map[string]string{
	"min":   "must be at least %s characters",
	"max":   "must not exceed %s characters",
	"len":   "must be exactly %s characters",
	"oneof": "must be one of: %s",
	"gte":   "must be greater than or equal to %s",
	"lte":   "must be less than or equal to %s",
	"gt":    "must be greater than %s",
	"lt":    "must be less than %s",
}

// Validator validates structs tagged with `validate`.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the domain tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	for tag, dt := range domainTags {
		valid := dt.valid
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || valid(s)
		})
	}

	return &Validator{v: v}
}

// Validate returns nil or a *domainerrors.Error with code VALIDATION.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = message(fe)
	}
	return domainerrors.ValidationWithDetails("validation failed", details)
}

func message(fe validator.FieldError) string {
	if dt, ok := domainTags[fe.Tag()]; ok {
		return dt.message
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	}
	if tmpl, ok := paramMessages[fe.Tag()]; ok {
		return strings.Replace(tmpl, "%s", fe.Param(), 1)
	}
	return "is invalid"
}
