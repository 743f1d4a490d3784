// Package common provides shared utilities and types used across the
// application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Validation and business-rule errors. These are expected, recoverable
	// conditions the caller surfaces to the user with a specific message.
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrExceedsTarget     = errors.New("exceeds savings target")

	// ErrStorage marks an underlying persistence failure. Fatal to the
	// operation; callers may retry the whole operation, never a part of it.
	ErrStorage = errors.New("storage failure")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsBusinessError reports whether err is an expected rule violation rather
// than a persistence failure.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateCategory) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrExceedsTarget)
}
