package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldErrors converts validator.ValidationErrors into messages keyed by the
// JSON field name. It returns nil for any other error.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		key := e.Field()
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = formatSingleError(e)
	}
	return fields
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		switch e.Kind().String() {
		case "string":
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		case "slice":
			return fmt.Sprintf("%s must have at most %s entries", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, param)
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color such as #2563eb", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "slug":
		return fmt.Sprintf("%s may only contain lowercase letters, digits and single hyphens", field)
	case "username":
		return fmt.Sprintf("%s must be 3-50 letters, digits, dots, dashes or underscores", field)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji", field)
	case "valid_name":
		return fmt.Sprintf("%s contains invalid characters", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
