// Package errors provides structured error types for Lineage.
//
// This package defines error codes and types that enable:
//   - Fail-fast configuration errors that stop a pipeline before any stage runs
//   - Per-stage execution errors that are recorded instead of propagated
//   - Graph reference warnings for edges that point at unknown individuals
//
// # Error Codes
//
// Error codes follow the taxonomy of the transformer pipeline:
//   - CONFIG_ERROR: invalid pipeline configuration (unknown transformer,
//     out-of-range temperature or canvas, empty transformer list)
//   - TRANSFORMER_EXECUTION_ERROR: a transformer failed, panicked or timed out
//   - GRAPH_REFERENCE_ERROR: an edge references a non-existent individual
//   - INVALID_INPUT, NOT_FOUND, INTERNAL_ERROR: loader and CLI failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "unknown transformer: %s", id)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransformerExecution, origErr, "stage %d", i)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline errors
	ErrCodeConfig               Code = "CONFIG_ERROR"
	ErrCodeTransformerExecution Code = "TRANSFORMER_EXECUTION_ERROR"
	ErrCodeGraphReference       Code = "GRAPH_REFERENCE_ERROR"

	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Config is shorthand for New(ErrCodeConfig, ...).
func Config(format string, args ...any) *Error {
	return New(ErrCodeConfig, format, args...)
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// ConfigErrors collects several configuration problems into one error so a
// caller sees every invalid field at once.
type ConfigErrors []*Error

// Error implements the error interface.
func (ce ConfigErrors) Error() string {
	switch len(ce) {
	case 0:
		return "no problems"
	case 1:
		return ce[0].Message
	}
	msg := fmt.Sprintf("%d problems", len(ce))
	for _, e := range ce {
		msg += "; " + e.Message
	}
	return msg
}

// Err returns nil when the collection is empty, otherwise a single *Error
// with code CONFIG_ERROR wrapping the collection.
func (ce ConfigErrors) Err() error {
	if len(ce) == 0 {
		return nil
	}
	if len(ce) == 1 {
		return ce[0]
	}
	return &Error{Code: ErrCodeConfig, Message: "invalid pipeline configuration", Cause: ce}
}
