package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("Sam", "name"))
	assert.Error(t, ValidateRequired("", "name"))
	assert.Error(t, ValidateRequired("   ", "name"))
}

func TestValidateMaxLength(t *testing.T) {
	assert.NoError(t, ValidateMaxLength("abc", 3, "field"))
	assert.Error(t, ValidateMaxLength("abcd", 3, "field"))
	// Counted in runes, not bytes.
	assert.NoError(t, ValidateMaxLength("héllo", 5, "field"))
}

func TestValidateLengthBetween(t *testing.T) {
	assert.NoError(t, ValidateLengthBetween("ab", 1, 3, "field"))
	assert.Error(t, ValidateLengthBetween("", 1, 3, "field"))
	assert.Error(t, ValidateLengthBetween(strings.Repeat("x", 4), 1, 3, "field"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@x.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
}
