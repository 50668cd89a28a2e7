package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the booking core. Business-rule denials (an ineligible
// cancellation, a failed wizard step validation) are values, not errors; these
// sentinels cover structural problems only.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDataIntegrity     = errors.New("data integrity error")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("user is not authorized")
	ErrForbidden         = errors.New("operation is forbidden for user")
)

// InvalidInputf wraps ErrInvalidInput with a formatted detail message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// InvalidTransitionf wraps ErrInvalidTransition with a formatted detail message.
func InvalidTransitionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidTransition}, args...)...)
}

// DataIntegrityf wraps ErrDataIntegrity with a formatted detail message.
func DataIntegrityf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDataIntegrity}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Forbiddenf wraps ErrForbidden with a formatted detail message.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrForbidden}, args...)...)
}

func IsInvalidInput(err error) bool      { return errors.Is(err, ErrInvalidInput) }
func IsInvalidTransition(err error) bool { return errors.Is(err, ErrInvalidTransition) }
func IsDataIntegrity(err error) bool     { return errors.Is(err, ErrDataIntegrity) }
func IsNotFound(err error) bool          { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool         { return errors.Is(err, ErrForbidden) }
