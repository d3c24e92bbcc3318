package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

// CodeValidationFailed is the error code of every request that fails struct validation.
const CodeValidationFailed = "VALIDATION_FAILED"

// ValidateSchema validates a given schema using the go-playground/validator package.
func ValidateSchema(schema any) error {
	err := getValidator().Struct(schema)

	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(errx.M)

		for _, fieldErr := range validationErrors {
			fields[fieldPath(fieldErr)] = getFieldErrDescription(fieldErr)
		}

		return errx.New(
			"Validation failed. See fields for details.",
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
			errx.WithFields(fields),
		)
	}
	return errx.New(
		fmt.Sprintf("Unknown validation error: %s", err.Error()),
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
	)
}

// fieldPath returns the dotted path of the failing field below the validated
// struct, e.g. "team.noc". Embedded structs appear in the namespace under
// their exported Go name and are skipped.
func fieldPath(fieldErr validator.FieldError) string {
	segments := strings.Split(fieldErr.Namespace(), ".")
	if len(segments) < 2 {
		return fieldErr.Field()
	}

	path := make([]string, 0, len(segments)-1)
	for _, seg := range segments[1 : len(segments)-1] {
		if seg != "" && unicode.IsUpper(rune(seg[0])) {
			continue
		}
		path = append(path, seg)
	}
	return strings.Join(append(path, segments[len(segments)-1]), ".")
}

func getFieldErrDescription(fieldErr validator.FieldError) string {
	param := fieldErr.Param()
	tag := fieldErr.Tag()

	if desc := getBasicValidationDesc(tag, param, fieldErr); desc != "" {
		return desc
	}

	if desc := getFormatValidationDesc(tag, param); desc != "" {
		return desc
	}

	if desc := getCustomValidationDesc(tag); desc != "" {
		return desc
	}

	return fmt.Sprintf("Failed validation: %s", tag)
}

func getBasicValidationDesc(tag, param string, fieldErr validator.FieldError) string {
	if desc := getCoreValidationDesc(tag, param, fieldErr); desc != "" {
		return desc
	}

	if desc := getStringValidationDesc(tag, param); desc != "" {
		return desc
	}

	if desc := getFieldComparisonDesc(tag, param); desc != "" {
		return desc
	}

	return ""
}

func getCoreValidationDesc(tag, param string, fieldErr validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", param)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", param)
	case "lt":
		return fmt.Sprintf("Must be less than %s", param)
	case "len":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Must be exactly %s characters", param)
		}
		return fmt.Sprintf("Must have exactly %s items", param)
	case "alpha":
		return "Must contain only alphabetic characters"
	case "alphanum":
		return "Must contain only alphanumeric characters"
	case "numeric":
		return "Must be a valid number"
	}
	return ""
}

func getStringValidationDesc(tag, param string) string {
	switch tag {
	case "oneof":
		options := strings.ReplaceAll(param, " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "containsany":
		return fmt.Sprintf("Must contain at least one of: %s", param)
	case "excludes":
		return fmt.Sprintf("Must not contain: %s", param)
	case "excludesall":
		return fmt.Sprintf("Must not contain any of: %s", param)
	case "startswith":
		return fmt.Sprintf("Must start with: %s", param)
	case "endswith":
		return fmt.Sprintf("Must end with: %s", param)
	case "datetime":
		return fmt.Sprintf("Must be a valid datetime in format: %s", param)
	}
	return ""
}

func getFieldComparisonDesc(tag, param string) string {
	switch tag {
	case "eqfield":
		return fmt.Sprintf("Must be equal to %s", param)
	case "nefield":
		return fmt.Sprintf("Must not be equal to %s", param)
	case "gtfield":
		return fmt.Sprintf("Must be greater than %s", param)
	case "ltfield":
		return fmt.Sprintf("Must be less than %s", param)
	}
	return ""
}

func getFormatValidationDesc(tag, _ string) string {
	switch tag {
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	case "json":
		return "Must be valid JSON"
	}
	return ""
}

func getCustomValidationDesc(tag string) string {
	if tag == "noc" {
		return "Must be a three letter upper-case NOC code"
	}
	return ""
}
