// Package validator provides a custom Validator type for accumulating
// field-level validation errors and returning them as a map.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(validator.NotBlank(title), "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// NotBlank reports whether value still has content once surrounding
// whitespace is trimmed.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Between reports whether value lies in the closed range [min, max].
func Between(value, min, max int) bool {
	return value >= min && value <= max
}

// In returns true if value is present in the list slice.
func In[T comparable](value T, list ...T) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}

var (
	structOnce     sync.Once
	structValidate *playground.Validate
)

// structValidator lazily builds the shared go-playground instance. Field
// names are reported using the json tag so they line up with request bodies
// and query parameter names.
func structValidator() *playground.Validate {
	structOnce.Do(func() {
		structValidate = playground.New(playground.WithRequiredStructEnabled())
		structValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return structValidate
}

// Struct runs the `validate` struct tags of s and records every failing field.
func (v *Validator) Struct(s any) {
	err := structValidator().Struct(s)
	if err == nil {
		return
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.AddError("input", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		v.AddError(fe.Field(), tagMessage(fe))
	}
}

func tagMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "gte", "min":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte", "max":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
