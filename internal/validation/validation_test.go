package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada Lovelace"))
	assert.Error(t, ValidateName(""))
	assert.NoError(t, ValidateName(strings.Repeat("a", 255)))
	assert.Error(t, ValidateName(strings.Repeat("a", 256)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@domain"))
	assert.Error(t, ValidateEmail("spaces in@example.com"))

	long := strings.Repeat("a", 250) + "@b.co"
	assert.Error(t, ValidateEmail(long))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword("1234567"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 72)))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}
