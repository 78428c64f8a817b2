package sssp

import (
	"errors"
	"fmt"
)

// Error codes for machine-readable error classification.
const (
	CodeConnection = "connection_error"
	CodeTimeout    = "timeout"
	CodeProtocol   = "protocol_error"
	CodeValidation = "validation_error"
)

// Error is the base error type for all client errors.
type Error struct {
	// Code is a machine-readable error code.
	Code string
	// Message is a human-readable error description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the human-readable error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates an error indicating the daemon socket could
// not be established.
func NewConnectionError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeConnection,
		Message: msg,
		Cause:   cause,
	}
}

// NewTimeoutError creates an error indicating a connect timeout.
func NewTimeoutError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeTimeout,
		Message: msg,
		Cause:   cause,
	}
}

// NewProtocolError creates an error indicating the daemon violated the
// expected greeting or version handshake sequence.
func NewProtocolError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeProtocol,
		Message: msg,
		Cause:   cause,
	}
}

// NewValidationError creates an error indicating invalid input.
func NewValidationError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: msg,
		Cause:   cause,
	}
}

// IsConnectionError reports whether err is or wraps a connection error.
func IsConnectionError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeConnection
	}
	return false
}

// IsTimeoutError reports whether err is or wraps a timeout error.
func IsTimeoutError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeTimeout
	}
	return false
}

// IsProtocolError reports whether err is or wraps a protocol error.
func IsProtocolError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeProtocol
	}
	return false
}

// IsValidationError reports whether err is or wraps a validation error.
func IsValidationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeValidation
	}
	return false
}
