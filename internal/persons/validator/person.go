package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"orgboard/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type PersonValidator struct {
	validate *validator.Validate
}

func NewPersonValidator() *PersonValidator {
	return &PersonValidator{
		validate: validator.New(),
	}
}

func (v *PersonValidator) Validate(person *model.Person) error {
	if err := v.validate.Struct(person); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if err := v.validateBusinessRules(person); err != nil {
		return err
	}

	return nil
}

func (v *PersonValidator) validateBusinessRules(person *model.Person) error {
	seen := make(map[string]struct{}, len(person.TeamIDs))
	for _, teamID := range person.TeamIDs {
		if _, dup := seen[teamID]; dup {
			return ValidationErrors{{
				Field:   "TeamIDs",
				Message: fmt.Sprintf("duplicate team membership %s", teamID),
			}}
		}
		seen[teamID] = struct{}{}
	}
	return nil
}

func (v *PersonValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
