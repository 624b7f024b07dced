package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword(""), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("abc12"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("abc123"))
	assert.NoError(t, ValidatePassword("newpass1"))
	assert.NoError(t, ValidatePassword(strings.Repeat("a", 72)))
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("a", 73)), ErrPasswordTooLong)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jordan@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("@example.com"))
}
