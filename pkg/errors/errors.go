/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package errors provides structured operational errors for sysconf.
// Validation-specific error kinds (unknown option, type coercion) live in
// pkg/schema; this package covers everything around them: file writes,
// subprocess invocations, and systemd calls.
package errors

import "fmt"

// ErrorCode classifies an operational error for programmatic handling.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a requested resource (file, unit, schema
	// version) was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidConfig indicates malformed or inconsistent configuration input.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeRender indicates an artifact could not be rendered.
	ErrCodeRender ErrorCode = "RENDER"
	// ErrCodeApply indicates an artifact could not be written or activated.
	ErrCodeApply ErrorCode = "APPLY"
	// ErrCodeUnavailable indicates an external collaborator (systemd bus,
	// update-grub) is unavailable.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries a code for programmatic handling, a human-readable
// message, the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with a code, message, and context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the ErrorCode of err if it is a StructuredError anywhere in
// its chain, or ErrCodeInternal otherwise.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if se, ok := err.(*StructuredError); ok {
			return se.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrCodeInternal
}
