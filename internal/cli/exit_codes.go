package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the spec-dock CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed (already initialized,
	// missing asset, configuration or filesystem error)
	ExitFailure = 1

	// ExitInvalidTarget indicates the target path is missing or not a directory
	ExitInvalidTarget = 2

	// ExitUsage indicates invalid flags or arguments
	ExitUsage = 2
)

// exitError is a custom error type that carries an exit code. The error it
// wraps has already been reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFailure
}
