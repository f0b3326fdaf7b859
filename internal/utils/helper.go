package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatAmount renders a price for display. All catalog prices are USD.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// ValidationMessage turns validator errors into one readable line.
func ValidationMessage(err error) string {

	var errs validator.ValidationErrors

	if !errors.As(err, &errs) {
		return "invalid input data"
	}

	var msgs []string

	for _, fieldErr := range errs {

		var message string

		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("Field %s is required", fieldErr.Field())
		case "email":
			message = fmt.Sprintf("Field %s must be a valid email address", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("Field %s must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("Field %s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "oneof":
			message = fmt.Sprintf("Field %s must be one of: %s", fieldErr.Field(), fieldErr.Param())
		case "url":
			message = fmt.Sprintf("Field %s must be a valid URL", fieldErr.Field())
		default:
			message = fmt.Sprintf("Field %s is invalid: %s=%s", fieldErr.Field(), fieldErr.Tag(), fieldErr.Param())
		}

		msgs = append(msgs, message)
	}

	return strings.Join(msgs, "; ")
}
