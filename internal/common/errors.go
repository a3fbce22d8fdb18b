// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Invocation errors.
	ErrUsage            = errors.New("usage error")
	ErrInvalidExtension = errors.New("invalid input file extension")

	// Pipeline errors.
	ErrRead  = errors.New("failed to read statement file")
	ErrParse = errors.New("failed to parse statement")
	ErrWrite = errors.New("failed to write report")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UsageError represents an invocation problem that should be shown to the user
// together with the command usage. No processing happens once one is returned.
type UsageError struct {
	Err         error
	UserMessage string
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a new user-facing invocation error.
func NewUsageError(userMessage string, err error) error {
	return &UsageError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsUsageError reports whether err was caused by a bad invocation.
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}

// ExitCode maps a pipeline result to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
