package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess          = 0   // Indicates successful execution.
	ExitErrorGeneric     = 1   // Indicates a generic error.
	ExitErrorZeroCount   = 2   // Indicates an invalid number of trailing zeros.
	ExitErrorResultCount = 3   // Indicates an invalid number of requested results.
	ExitErrorConfig      = 4   // Indicates any other configuration error.
	ExitErrorTimeout     = 5   // Indicates the search timed out.
	ExitErrorWorker      = 6   // Indicates a search worker terminated abnormally.
	ExitErrorMismatch    = 7   // Indicates a result failed re-verification.
	ExitErrorCanceled    = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Field names used by ValidationError for the two search parameters. They match
// the long CLI flag names so error messages point at the offending flag.
const (
	FieldZeroCount   = "number-of-zeros"
	FieldResultCount = "count-of-hashes"
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WorkerError reports that a single search worker terminated abnormally.
// Any WorkerError is fatal for the whole search: the partial results of the
// other workers are discarded rather than returned incomplete.
type WorkerError struct {
	// Worker is the index of the failed worker.
	Worker int
	// Cause is the underlying failure (a recovered panic is wrapped as an error).
	Cause error
}

// Error returns a formatted message naming the failed worker.
func (e WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed: %v", e.Worker, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e WorkerError) Unwrap() error { return e.Cause }

// TimeoutError represents a search timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code. A nil error maps to
// ExitSuccess.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Field {
		case FieldZeroCount:
			return ExitErrorZeroCount
		case FieldResultCount:
			return ExitErrorResultCount
		}
		return ExitErrorConfig
	}

	var configErr ConfigError
	if errors.As(err, &configErr) {
		return ExitErrorConfig
	}

	var timeoutErr TimeoutError
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	}

	var workerErr WorkerError
	if errors.As(err, &workerErr) {
		return ExitErrorWorker
	}
	return ExitErrorGeneric
}
