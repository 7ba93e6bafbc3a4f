package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Message is the body of every error response and of acknowledgement-only
// successes: a human-readable message, optionally accompanied by field-level
// validation details.
type Message struct {
	Message string            `json:"message"`
	Details []validationError `json:"details,omitempty"`
}

var (
	EmptyRequestBodyResponse = Message{
		Message: "Request body is empty. Please provide necessary data.",
	}

	BadRequestResponse = Message{
		Message: "Request body is malformed.",
	}

	ProjectNotFoundResponse = Message{
		Message: "Project not found",
	}

	ProjectDeletedResponse = Message{
		Message: "Project deleted successfully",
	}

	ServerErrorResponse = Message{
		Message: "Internal server error",
	}
)

// ValidationErrorResponse converts validator errors into a 400 body listing
// every offending field.
func ValidationErrorResponse(err error) Message {
	return Message{
		Message: "Validation failed.",
		Details: getValidationErrors(err),
	}
}

type validationError struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Issue string `json:"issue"`
}

func getValidationErrors(err error) []validationError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	errs := make([]validationError, 0, len(validationErrs))

	for _, err := range validationErrs {
		vErr := validationError{
			Field: err.Field(),
			Value: fmt.Sprintf("%v", err.Value()),
		}

		switch err.Tag() {
		case "required":
			vErr.Issue = "This field is required."
		case "url":
			vErr.Issue = fmt.Sprintf("Invalid %s.", err.Field())
		case "min":
			vErr.Issue = fmt.Sprintf("Must contain at least %s items.", err.Param())
		default:
			vErr.Issue = "Invalid value."
		}

		errs = append(errs, vErr)
	}

	return errs
}
