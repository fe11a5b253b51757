// Package validate wraps go-playground/validator with the two domain
// formats the storefront needs and turns rule failures into messages fit
// for the response envelope.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	rePhone = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	reSlug  = regexp.MustCompile(`^[a-z0-9-]+$`)

	v = newValidator()
)

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return rePhone.MatchString(fl.Field().String())
	})
	_ = val.RegisterValidation("slugfmt", func(fl validator.FieldLevel) bool {
		return reSlug.MatchString(fl.Field().String())
	})
	return val
}

// Struct runs the tag rules on a request struct.
func Struct(s any) error {
	return v.Struct(s)
}

// Message flattens a validation error into one human-readable line.
func Message(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request body"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "uuid4":
		return field + " must be a valid id"
	case "phone":
		return field + " must be a valid phone number"
	case "slugfmt":
		return field + " may only contain lowercase letters, digits and dashes"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
