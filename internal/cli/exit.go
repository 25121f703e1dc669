package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitClean     = 0 // no unused resources reported
	ExitUnused    = 1 // at least one unused resource reported
	ExitToolError = 2 // lint could not be run, or bad config/usage
)

// ExitError carries a specific exit code out of a command. A nil Err means
// the command already wrote everything the user needs to see.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit code.
// Errors without an ExitError (usage mistakes, unknown flags) map to ExitToolError.
func ExitCode(err error) int {
	if err == nil {
		return ExitClean
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitToolError
}

// Silent reports whether err should exit without printing a message.
func Silent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Err == nil
}

func toolError(err error) error {
	return &ExitError{Code: ExitToolError, Err: err}
}
