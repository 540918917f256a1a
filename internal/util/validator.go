package util

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/go-playground/validator/v10"
)

// credit: https://github.com/go-playground/validator/issues/559#issuecomment-976459959

type ApiError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(fe validator.FieldError, customField *map[string]string) string {
	// convert to custom field if exist
	field := fe.Field()
	if _, ok := (*customField)[field]; ok {
		field = (*customField)[field]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%v is required", field)
	case "numeric":
		return fmt.Sprintf("%v must be numeric", field)
	case "url":
		return fmt.Sprintf("%v must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%v must be at least %v", field, fe.Param())
	case "max":
		return fmt.Sprintf("%v must be at most %v", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%v must be greater than %v", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%v must be greater than or equal to %v", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%v must be less than or equal to %v", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%v must be one of: %v", field, fe.Param())
	case "strNotEmpty":
		return fmt.Sprintf("%v must not be empty or contain only whitespace charaters", field)
	case "unit":
		return fmt.Sprintf("%v must be one of cm, mm or pt", field)
	case "origin":
		return fmt.Sprintf("%v must be top-left or bottom-left", field)
	case "paperCheck":
		return fmt.Sprintf("%v must be warn or strict", field)
	case "dimMode":
		return fmt.Sprintf("%v must be visible or mediabox", field)
	case "corner":
		return fmt.Sprintf("%v must be top-left, top-right, bottom-left or bottom-right", field)
	}

	log.Printf("Unknown tag: %v with error: %v", fe.Tag(), fe.Error())
	return fe.Error() // default error
}

/*
GenerateErrorMessages extracts validation errors and returns them as an array of ApiError.
Each ApiError contains the field name and a descriptive error message.

Example output:

	[
	  {
		"field": "Unit",
		"message": "Unit must be one of cm, mm or pt"
	  }
	]

If a customField map is provided, it will replace the field name with the corresponding custom field name.
Example usage:

	GenerateErrorMessages(err, map[string]string{"SizeUnit": "size_unit"})

Optional Parameters:
- customField (map[string]string): A map to override field names in the error messages.
- fieldName (string): A specific field name to field names in the error messages.
*/
func GenerateErrorMessages(err error, optionalParams ...interface{}) []ApiError {
	var customField map[string]string
	var fieldName string

	// Parse optional parameters
	for _, param := range optionalParams {
		switch v := param.(type) {
		case map[string]string:
			customField = v
		case string:
			fieldName = v
		}
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]ApiError, len(ve))
		for i, fe := range ve {
			field := fe.Field()
			// Use customField if specified and the field exists in the map
			if customField != nil {
				if customFieldName, ok := customField[field]; ok {
					field = customFieldName
				}
			}
			out[i] = ApiError{field, msgForTag(fe, &customField)}
		}
		return out
	}

	if fieldName == "" {
		fieldName = fieldForError(err)
	}

	return []ApiError{
		{
			Field:   fieldName,
			Message: err.Error(),
		},
	}
}

// fieldForError names the request area a core error belongs to.
func fieldForError(err error) string {
	switch {
	case errors.Is(err, autoqr.ErrInvalidMeasurement):
		return "measurement"
	case errors.Is(err, autoqr.ErrPageOutOfRange):
		return "page"
	case errors.Is(err, autoqr.ErrValidationFailed):
		return "paper"
	default:
		return "Unknown"
	}
}

// check if string is empty, after trimming spaces
// Usage: `binding:"strNotEmpty"`
func StrNotEmpty(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	return len(strings.TrimSpace(field.String())) > 0
}

// stringParser adapts one of the autoqr Parse functions to a validator.
// Empty strings pass so the tag can be combined with omitempty or defaults.
func stringParser[T any](parse func(string) (T, error)) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		if field.String() == "" {
			return true
		}
		_, err := parse(field.String())
		return err == nil
	}
}

var (
	// Usage: `binding:"unit"`
	ValidUnit = stringParser(autoqr.ParseUnit)
	// Usage: `binding:"origin"`
	ValidOrigin = stringParser(autoqr.ParseCoordinateOrigin)
	// Usage: `binding:"paperCheck"`
	ValidPaperCheck = stringParser(autoqr.ParseValidationMode)
	// Usage: `binding:"dimMode"`
	ValidDimMode = stringParser(autoqr.ParseDimensionBasis)
	// Usage: `binding:"corner"`
	ValidCorner = stringParser(autoqr.ParseCorner)
)

// RegisterValidations installs the custom tags on v.
func RegisterValidations(v *validator.Validate) error {
	tags := []struct {
		name string
		fn   validator.Func
	}{
		{"strNotEmpty", StrNotEmpty},
		{"unit", ValidUnit},
		{"origin", ValidOrigin},
		{"paperCheck", ValidPaperCheck},
		{"dimMode", ValidDimMode},
		{"corner", ValidCorner},
	}
	for _, t := range tags {
		if err := v.RegisterValidation(t.name, t.fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", t.name, err)
		}
	}
	return nil
}
