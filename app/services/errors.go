package services

import (
	"errors"

	"github.com/hustlcampus/hustl/app/repositories"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("not allowed")
	ErrNotFound               = repositories.ErrNotFound
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrPasswordNotSet         = errors.New("account has no password yet")
	ErrAlreadyRegistered      = errors.New("account already registered")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrStorage                = errors.New("image storage failed")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError is a user-correctable input problem. Notice is safe to
// show to the user.
type ValidationError struct {
	Field  string
	Notice string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Notice
	}
	return "validation: " + e.Field + ": " + e.Notice
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, notice string) error {
	return &ValidationError{Field: field, Notice: notice}
}

// Notice extracts the user-facing message of a validation error, or "".
func Notice(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Notice
	}
	return ""
}
