// Package errors provides the standard error categories shared by every module.
// Module-specific sentinels wrap one of these categories so callers can branch on
// intent (not found, invalid input, integrity failure) without knowing the module.
package errors

import (
	"errors"
	"fmt"
)

// Standard error categories.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIntegrity indicates that data failed an authenticity or consistency check.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrUnsupported indicates the requested operation is not supported by the component.
	ErrUnsupported = errors.New("unsupported")

	// ErrInternal indicates an unexpected failure inside the component.
	ErrInternal = errors.New("internal error")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
