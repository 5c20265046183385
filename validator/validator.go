package validator

import (
	"fmt"
	"reflect"
	"strings"

	"merquelo/utils"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validators
	v.RegisterValidation("notblank", validateNotBlank)
	v.RegisterValidation("productspec", validateProductSpec)
	v.RegisterValidation("storespec", validateStoreSpec)

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Convert validation errors to our custom format
	var validationErrs ValidationErrors
	for _, err := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   err.Field(),
			Message: msgForTag(err),
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return validationErrs
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "productspec":
		return fmt.Sprintf("%s must look like name or name:quantity", field)
	case "storespec":
		return fmt.Sprintf("%s must look like store=product[:quantity],product[:quantity]", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Custom validators

// validateNotBlank rejects strings made only of whitespace
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateProductSpec accepts "name" or "name:quantity"
func validateProductSpec(fl validator.FieldLevel) bool {
	_, err := utils.ParseProductSpec(fl.Field().String())
	return err == nil
}

// validateStoreSpec accepts "store=product[:quantity],..." with at least one product
func validateStoreSpec(fl validator.FieldLevel) bool {
	_, err := utils.ParseStoreSpec(fl.Field().String())
	return err == nil
}
