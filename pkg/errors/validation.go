package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const CodeValidation = "VALIDATION_ERROR"

// Validation converts a validator error into a VALIDATION_ERROR AppError
// whose message names the first failing field.
func Validation(err error) *AppError {
	message := "Invalid input data"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		message = ValidationMessage(verrs)
	}
	return New(CodeValidation, message, http.StatusBadRequest, err)
}

func ValidationMessage(verrs validator.ValidationErrors) string {
	for _, err := range verrs {
		field := strings.ToLower(err.Field())
		param := err.Param()

		switch err.Tag() {
		case "required":
			return field + " is required"
		case "min":
			return field + " must be at least " + param
		case "max":
			return field + " must be at most " + param
		case "oneof":
			return field + " must be one of: " + param
		case "url":
			return field + " must be a valid URL"
		default:
			return field + " is invalid"
		}
	}
	return "Invalid input data"
}
