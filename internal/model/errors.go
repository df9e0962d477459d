package model

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors forming the error taxonomy of the tool. Packages wrap them
// with fmt.Errorf("%w: ...") so callers can classify a failure with
// errors.Is while still getting a descriptive message.
var (
	// ErrInvalidArgument reports a missing or empty required value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTypeMismatch reports a value of the wrong type (e.g. a port that
	// is not an integer).
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNotFound reports a missing site directory, compose file or
	// environment file.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied reports a filesystem permission failure.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMissingPlaceholder reports a compose template that references a
	// variable absent from the substitution table.
	ErrMissingPlaceholder = errors.New("missing placeholder")

	// ErrPortsExhausted reports that every candidate port pair is reserved.
	ErrPortsExhausted = errors.New("ports exhausted")

	// ErrLocked reports that another invocation holds the site lock.
	ErrLocked = errors.New("site locked")

	// ErrNotImplemented is returned by the packaging/upload/download stubs.
	ErrNotImplemented = errors.New("not implemented")

	// ErrCancelled reports that the user aborted an interactive prompt.
	ErrCancelled = errors.New("cancelled by user")
)

// ClassifyFSError attaches the matching sentinel to a filesystem error:
// fs.ErrNotExist becomes ErrNotFound and fs.ErrPermission becomes
// ErrPermissionDenied. Other errors are returned unchanged.
func ClassifyFSError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// ExitCode defines standard CLI exit codes. These codes allow scripts to
// programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidArgument covers ErrInvalidArgument and ErrTypeMismatch.
	ExitInvalidArgument ExitCode = 2

	// ExitSiteNotFound indicates the site or one of its files is missing.
	ExitSiteNotFound ExitCode = 3

	// ExitPortAllocationFailed indicates no free port pair was left.
	ExitPortAllocationFailed ExitCode = 4

	// ExitTemplateError indicates the compose template could not be rendered.
	ExitTemplateError ExitCode = 5

	// ExitPermissionDenied indicates a filesystem permission failure.
	ExitPermissionDenied ExitCode = 6

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 7

	// ExitSiteLocked indicates another invocation is working on the site.
	ExitSiteLocked ExitCode = 8
)

// ExitCodeFor maps an error from the taxonomy above to its exit code.
// Errors outside the taxonomy map to ExitGeneralError.
func ExitCodeFor(err error) ExitCode {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrTypeMismatch):
		return ExitInvalidArgument
	case errors.Is(err, ErrNotFound):
		return ExitSiteNotFound
	case errors.Is(err, ErrPortsExhausted):
		return ExitPortAllocationFailed
	case errors.Is(err, ErrMissingPlaceholder):
		return ExitTemplateError
	case errors.Is(err, ErrPermissionDenied):
		return ExitPermissionDenied
	case errors.Is(err, ErrLocked):
		return ExitSiteLocked
	case errors.Is(err, ErrCancelled):
		return ExitUserCancelled
	default:
		return ExitGeneralError
	}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// WrapError wraps err in a CLIError whose code is derived from the error
// taxonomy. A nil err yields nil.
func WrapError(message string, err error) error {
	if err == nil {
		return nil
	}
	return WrapCLIError(ExitCodeFor(err), message, err)
}
