// internal/config/validate/validate.go
package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// ValidationError reports a single config field that is missing or fails
// its format constraint. Field is the key as written in the config file.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Standardized error constructors

func ErrRequired(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}

func ErrMin(field string, min any, value any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %v (got %v)", min, value)}
}

func ErrType(field string, want string, value any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be %s (got %T %v)", want, value, value)}
}

func ErrFormat(field string, want string, value string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be %s (got %q)", want, value)}
}

func RequireString(v *ValidationErrors, path string, value string) bool {
	if strings.TrimSpace(value) == "" {
		err := ErrRequired(path)
		LogConfigError(path, value, err)
		v.Add(err)
		return false
	}
	LogConfigOK(path, value)
	return true
}

func RequireIntMin(v *ValidationErrors, path string, value int, min int) bool {
	if value < min {
		err := ErrMin(path, min, value)
		LogConfigError(path, value, err)
		v.Add(err)
		return false
	}
	LogConfigOK(path, value)
	return true
}

func RequireColor(v *ValidationErrors, path string, value string) bool {
	if !IsColor(value) {
		err := ErrFormat(path, "a CSS color (hex, rgb(), hsl() or a color name)", value)
		LogConfigError(path, value, err)
		v.Add(err)
		return false
	}
	LogConfigOK(path, value)
	return true
}

// OptionalURL accepts an empty value; anything else must be an absolute
// http(s) URL.
func OptionalURL(v *ValidationErrors, path string, value string) bool {
	if value == "" {
		log.Debug().Str("config", path).Msg("not set (optional)")
		return true
	}
	if !IsAbsoluteURL(value) {
		err := ErrFormat(path, "an absolute http(s) URL", value)
		LogConfigError(path, value, err)
		v.Add(err)
		return false
	}
	LogConfigOK(path, value)
	return true
}

func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() != ""
}

// ValidationErrors collects every failing field of a config load so they
// can be reported together.
type ValidationErrors struct {
	errors []*ValidationError
}

func (v *ValidationErrors) Add(err *ValidationError) {
	if err != nil {
		v.errors = append(v.errors, err)
	}
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.errors) > 0
}

// Failed reports whether field already has an error recorded.
func (v *ValidationErrors) Failed(field string) bool {
	for _, err := range v.errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) Errors() []*ValidationError {
	return v.errors
}

func (v *ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		fields = append(fields, err.Field)
	}
	return fields
}

func (v *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:")
	for _, err := range v.errors {
		sb.WriteString("\n - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap lets errors.As reach the individual *ValidationError values.
func (v *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v.errors))
	for i, err := range v.errors {
		errs[i] = err
	}
	return errs
}

func LogConfigOK(path string, value any) {
	log.Logger.Debug().
		Str("config", path).
		Interface("value", value).
		Msg("config set")
}

func LogConfigError(path string, value any, err error) {
	log.Logger.Error().
		Str("config", path).
		Interface("value", value).
		Err(err).
		Msg("invalid config value")
}

func LogConfigWarn(path string, value any, msg string) {
	log.Logger.Warn().
		Str("config", path).
		Interface("value", value).
		Msg(msg)
}
