package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInternal           = errors.New("internal server error")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrAccountBlocked     = errors.New("account is blocked")

	// ErrBackendUnavailable marks a transport-level failure reaching the
	// content backend. Never conflated with an authentication failure.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrSchemaMismatch marks a raw record missing fields the canonical
	// entity requires.
	ErrSchemaMismatch = errors.New("record does not match expected schema")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
