package services

import (
	"errors"
	"fmt"
)

// Error kinds group sentinel errors by how callers should react to them.
const (
	KindValidation     = "validation_error"
	KindNotFound       = "not_found"
	KindConflict       = "conflict"
	KindAuthentication = "authentication_error"
	KindForbidden      = "forbidden"
	KindDomain         = "domain_error"
	KindInternal       = "internal_error"
)

// Error is a classified service failure. Code is stable and machine readable,
// Message is meant for humans.
type Error struct {
	Kind    string
	Code    string
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

func newError(kind string, code string, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrValidation = newError(KindValidation, "validation_error", "invalid input")
	ErrNotFound   = newError(KindNotFound, "not_found", "not found")

	ErrEmailAlreadyRegistered  = newError(KindConflict, "email_already_registered", "Email already registered")
	ErrInvalidCredentialsInput = newError(KindValidation, "validation_error", "email and password are required")
	ErrWeakPassword            = newError(KindValidation, "weak_password", "password must be at least 8 characters and contain upper case, lower case and digit characters")

	ErrInvalidCredentials = newError(KindAuthentication, "invalid_credentials", "Incorrect email or password")
	ErrUnauthenticated    = newError(KindAuthentication, "unauthenticated", "Could not validate credentials")
	ErrMissingEmailClaim  = newError(KindDomain, "missing_email_claim", "identity provider did not return an email")
	ErrAccountDisabled    = newError(KindForbidden, "account_disabled", "account is disabled")
	ErrForbidden          = newError(KindForbidden, "forbidden", "not enough privileges")

	ErrInvalidCategory = newError(KindDomain, "invalid_category", "Invalid category_id")
	ErrInvalidMonth    = newError(KindDomain, "invalid_month", "month must be between 1 and 12")
	ErrInvalidYear     = newError(KindDomain, "invalid_year", "year must be between 1 and 9999")
)

// FieldError reports a rejected input field. It matches ErrValidation under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (err *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", err.Field, err.Message)
}

func (err *FieldError) Unwrap() error {
	return ErrValidation
}

func fieldError(field string, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Classify returns the classified error behind err. Unclassified errors are
// reported with KindInternal.
func Classify(err error) *Error {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return &Error{Kind: KindValidation, Code: ErrValidation.Code, Message: fieldErr.Error()}
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "internal server error"}
}

// ErrorKind returns the kind of err, or KindInternal for unclassified errors.
func ErrorKind(err error) string {
	return Classify(err).Kind
}
