// Package errors provides structured error types for geospanner.
//
// Every failure that ends a run carries a machine-readable [Code], so the
// CLI, the benchmark driver and the HTTP service can report it the same way:
//
//   - ARGUMENT_PARSE: a required argument is missing or not numeric
//   - INVALID_SPACE_OR_DISTRIBUTION: unknown space or distribution token
//   - INVALID_PARAMETERS: counts, bounds or stretch values out of range
//   - ALGORITHM_FAILURE: a spanner builder or the stretch oracle failed
//   - SAMPLING_EXHAUSTED: rejection sampling hit its retry cap
//
// # Usage
//
//	err := errors.New(errors.ErrCodeArgumentParse, "Stretch parse error!")
//	if errors.Is(err, errors.ErrCodeArgumentParse) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeAlgorithmFailure, cause, "stage %d", 1)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Run input errors
	ErrCodeArgumentParse              Code = "ARGUMENT_PARSE"
	ErrCodeInvalidSpaceOrDistribution Code = "INVALID_SPACE_OR_DISTRIBUTION"
	ErrCodeInvalidParameters          Code = "INVALID_PARAMETERS"

	// Run execution errors
	ErrCodeAlgorithmFailure  Code = "ALGORITHM_FAILURE"
	ErrCodeSamplingExhausted Code = "SAMPLING_EXHAUSTED"

	// Plumbing errors (CLI, benchmark driver, service)
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeTimeout       Code = "TIMEOUT"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the cause when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsInputError reports whether err was caused by the caller's input rather
// than by the run itself. Input errors map to a usage failure in the CLI and
// to 400 responses in the service.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeArgumentParse, ErrCodeInvalidSpaceOrDistribution,
		ErrCodeInvalidParameters, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return true
	default:
		return false
	}
}
