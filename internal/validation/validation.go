// Package validation holds the shared request-field validators. They
// are deliberately independent of the storage schema so schema changes
// cannot silently alter the public API contract.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateRequired checks that a field is not empty or whitespace.
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string in runes.
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateLengthBetween checks that a string's rune count is within [min, max].
func ValidateLengthBetween(value string, min, max int, fieldName string) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return fmt.Errorf("%s must be between %d and %d characters long", fieldName, min, max)
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return errors.New("email must have a valid format")
	}
	return nil
}
