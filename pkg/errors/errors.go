// Package errors provides structured error types for arcforge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the viewer
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes group into construction faults (INVALID_FOCAL_ITEM,
// DANGLING_RELATION, UNKNOWN_RELATION), rendering faults
// (RENDER_UNAVAILABLE) and general input/internal failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFocalItem, "no item %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidFocalItem) {
//	    // show "no data"
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderUnavailable, origErr, "start terminal engine")
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidFocalItem Code = "INVALID_FOCAL_ITEM"

	// Graph construction faults
	ErrCodeDanglingRelation Code = "DANGLING_RELATION"
	ErrCodeUnknownRelation  Code = "UNKNOWN_RELATION"

	// Resource errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeRenderUnavailable Code = "RENDER_UNAVAILABLE"

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

// As is a passthrough to the standard library so callers importing this
// package under the name errors keep access to it.
func As(err error, target any) bool {
	return errors.As(err, target)
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
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidFocalItem, ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeRenderUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// UnknownItemError describes a focal item id with no backing record,
// along with the closest ids the catalog knows about.
type UnknownItemError struct {
	ID          string
	Suggestions []string
}

// Error implements the error interface.
func (e *UnknownItemError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("unknown item %q (did you mean %s?)", e.ID, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("unknown item %q", e.ID)
}

// Code returns the error code for this error type.
func (e *UnknownItemError) Code() Code {
	return ErrCodeInvalidFocalItem
}
