package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct rules and value ranges
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			problems := make([]string, 0, len(validationErrs))
			for _, fieldError := range validationErrs {
				problems = append(problems, describe(fieldError))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return ValidateTimeout(c.Timeout, "service")
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > MaxTimeout {
		return fmt.Errorf("%s timeout too large (max %s)", name, MaxTimeout)
	}
	return nil
}

func describe(fieldError validator.FieldError) string {
	field := strings.ToLower(fieldError.Field())

	switch fieldError.Tag() {
	case "required":
		return field + " is required"
	case "http_url":
		return field + " must be an http(s) URL"
	case "numeric":
		return field + " must be numeric"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
	case "gt":
		return field + " must be positive"
	default:
		return field + " is invalid"
	}
}
