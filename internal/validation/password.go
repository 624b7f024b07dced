package validation

import (
	"errors"
)

// PasswordMinLength is the baseline policy minimum. Deployments that want a
// stricter policy raise this, not the callers.
const PasswordMinLength = 6

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 characters")
)

// ValidatePassword checks the new-password policy.
// The 72-byte ceiling exists because bcrypt silently truncates longer input.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}
