// Package errors provides structured error types for ontoforge.
//
// The engine distinguishes a small taxonomy of failures so hosts (CLI, HTTP
// adapter, embedding applications) can decide how to surface them:
//   - NOT_FOUND: an element or ontology does not exist
//   - INTEGRITY_VIOLATION: a graph would break referential integrity
//   - PARSE_ERROR: text could not be turned into a graph
//   - CONCURRENT_OPERATION: a guarded operation is already in flight
//   - INVALID_*: caller input failed validation
//
// Validation findings are not errors; they are reported as data by the
// validation package.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeIntegrityViolation, "edge %s: unknown target %s", id, target)
//	if errors.Is(err, errors.ErrCodeIntegrityViolation) {
//	    // Reject the import, keep the current ontology
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "parse %s text", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidToken  Code = "INVALID_TOKEN"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeOntologyNotFound Code = "ONTOLOGY_NOT_FOUND"
	ErrCodeNoActiveOntology Code = "NO_ACTIVE_ONTOLOGY"

	// Graph consistency errors
	ErrCodeIntegrityViolation Code = "INTEGRITY_VIOLATION"
	ErrCodeParse              Code = "PARSE_ERROR"
	ErrCodeSerialize          Code = "SERIALIZE_ERROR"

	// Operation gating
	ErrCodeConcurrentOperation Code = "CONCURRENT_OPERATION"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// For *Error types, returns the message without the code prefix.
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

// Dismissible reports whether a host should show err as a dismissible banner
// and keep working. Integrity, parse and concurrency failures leave state
// unchanged, so the user can simply retry or correct the input.
func Dismissible(err error) bool {
	switch GetCode(err) {
	case ErrCodeIntegrityViolation, ErrCodeParse, ErrCodeSerialize,
		ErrCodeConcurrentOperation, ErrCodeInvalidFormat:
		return true
	}
	return false
}
