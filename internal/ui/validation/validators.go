// Package validation holds the field rules used by the console forms.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not blank.
func Required(fieldName string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return fieldName + " is required"
		}
		return ""
	}
}

// MinLen validates that a non-blank field has at least minLen characters.
// Uses rune count for proper Unicode support.
func MinLen(fieldName string, minLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v != "" && utf8.RuneCountInString(v) < minLen {
			return fmt.Sprintf("%s must be at least %d characters", fieldName, minLen)
		}
		return ""
	}
}

// MaxLen validates that a field does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func MaxLen(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters", fieldName, maxLen)
		}
		return ""
	}
}

// Pattern validates that a non-blank field matches re, reporting msg otherwise.
func Pattern(re *regexp.Regexp, msg string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if !re.MatchString(v) {
			return msg
		}
		return ""
	}
}

// FloatRange validates that a non-blank field is a number between minVal and maxVal.
// A decimal comma is accepted.
func FloatRange(fieldName string, minVal, maxVal float64) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		f, err := ParseFloat(v)
		if err != nil {
			return fieldName + " must be a number"
		}
		if f < minVal {
			return fmt.Sprintf("%s must be greater than or equal to %g", fieldName, minVal)
		}
		if f > maxVal {
			return fmt.Sprintf("%s cannot exceed %g", fieldName, maxVal)
		}
		return ""
	}
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// NonNegativeInt validates that a non-blank field is a whole number >= 0.
func NonNegativeInt(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if strings.HasPrefix(v, "-") {
			if _, err := strconv.Atoi(v); err == nil {
				return fmt.Sprintf("%s must be greater than or equal to 0", fieldName)
			}
		}
		if !digitsOnly.MatchString(v) {
			return fieldName + " must be a whole number"
		}
		if _, err := strconv.Atoi(v); err != nil {
			return fieldName + " is too large"
		}
		return ""
	}
}

// ParseFloat parses a decimal number, accepting either '.' or ',' as separator.
func ParseFloat(v string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
	order  []string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			if _, seen := fv.errors[field]; !seen {
				fv.order = append(fv.order, field)
			}
			fv.errors[field] = err
			break // Stop at first error per field
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// Fields returns the invalid fields in the order they were validated.
func (fv *FieldValidator) Fields() []string {
	return append([]string(nil), fv.order...)
}

// Valid reports whether no field failed.
func (fv *FieldValidator) Valid() bool {
	return len(fv.errors) == 0
}
