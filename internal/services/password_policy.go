package services

import "unicode"

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// ValidatePasswordStrength requires at least eight characters with upper
// case, lower case and digit characters.
func ValidatePasswordStrength(password string) error {
	if len(password) > maxPasswordBytes {
		return fieldError("password", "must be at most %d bytes", maxPasswordBytes)
	}
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}
