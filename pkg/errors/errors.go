// Package errors provides structured error types for gcpmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP shell
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map one-to-one onto the failure modes of the snapshot viewer:
//
//	SNAPSHOT_NOT_FOUND  no snapshot file for the requested project
//	INVALID_FORMAT      snapshot file present but missing its "data" field
//	PARSE_ERROR         snapshot file is not valid JSON
//	EMPTY_GRAPH         graph has no nodes or no edges ("no valid data")
//	DANGLING_EDGE       edge references an unknown node (reported, never returned)
//	RENDER_WRITE        the rendered document could not be produced or written
//	IO_ERROR            the snapshot directory could not be read or written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "no snapshot for project %q", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // show the empty state
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "decode %s", path)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidProject Code = "INVALID_PROJECT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeParse          Code = "PARSE_ERROR"

	// Graph errors
	ErrCodeEmptyGraph   Code = "EMPTY_GRAPH"
	ErrCodeDanglingEdge Code = "DANGLING_EDGE"

	// Resource not found errors
	ErrCodeNotFound Code = "SNAPSHOT_NOT_FOUND"

	// Storage and output errors
	ErrCodeIO          Code = "IO_ERROR"
	ErrCodeRenderWrite Code = "RENDER_WRITE"

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
// For *Error types, returns the message without the code prefix, followed by
// the cause when there is one (parse errors keep the decoder's message).
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// IsEmptyState reports whether err should be shown as an informative empty
// state rather than a failure: a missing snapshot, a malformed one, or a graph
// without usable data.
func IsEmptyState(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeInvalidFormat, ErrCodeParse, ErrCodeEmptyGraph:
		return true
	}
	return false
}
