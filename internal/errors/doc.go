// Package apperrors holds the error types of the hash finder and maps each
// of them to a process exit code.
//
// Configuration, validation, worker, timeout and mismatch failures each have
// their own type or sentinel. Types that carry a cause implement Unwrap, so
// callers classify errors with errors.Is and errors.As rather than by text.
package apperrors
