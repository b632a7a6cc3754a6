// Package simerr defines the error taxonomy shared by the catalog generator
// and the source population.
//
// Every failure surfaces to the caller as an *Error carrying a Code. Nothing
// is retried internally: generation and drawing are deterministic given their
// inputs, so a retry would reproduce the same failure.
package simerr

import (
	"errors"
	"fmt"
)

// Code categorizes population errors.
type Code string

const (
	// CodeConfiguration indicates invalid population bounds or options.
	CodeConfiguration Code = "CONFIGURATION"

	// CodeExhausted indicates a draw was attempted with no remaining records.
	CodeExhausted Code = "EXHAUSTED"

	// CodeDependency indicates a collaborator (cosmology, sky area) returned
	// an invalid or unit-mismatched value.
	CodeDependency Code = "DEPENDENCY"
)

// Error is a categorized population error.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Field names the offending configuration field, if any.
	Field string

	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configuration creates a configuration error for a named field.
func Configuration(field, format string, args ...any) *Error {
	return &Error{
		Code:    CodeConfiguration,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Exhausted creates an exhaustion error.
func Exhausted(format string, args ...any) *Error {
	return &Error{
		Code:    CodeExhausted,
		Message: fmt.Sprintf(format, args...),
	}
}

// Dependency wraps a collaborator failure. The cause is kept unchanged so
// callers can still match on it with errors.Is / errors.As.
func Dependency(message string, cause error) *Error {
	return &Error{
		Code:    CodeDependency,
		Message: message,
		Err:     cause,
	}
}

// IsConfigurationError reports whether err is (or wraps) a configuration error.
func IsConfigurationError(err error) bool {
	return hasCode(err, CodeConfiguration)
}

// IsExhaustionError reports whether err is (or wraps) an exhaustion error.
func IsExhaustionError(err error) bool {
	return hasCode(err, CodeExhausted)
}

// IsDependencyError reports whether err is (or wraps) a dependency error.
func IsDependencyError(err error) bool {
	return hasCode(err, CodeDependency)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func hasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
