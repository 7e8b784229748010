// Package errs provides the structured error type shared by the demo
// components. Errors carry a stable code and a category so callers can
// distinguish configuration mistakes from runtime failures without string
// matching.
package errs

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryRuntime    Category = "runtime"
	CategoryTransport  Category = "transport"
	CategoryValidation Category = "validation"
)

// Error is a structured error with a stable code and category.
type Error struct {
	// Code is a unique error identifier (e.g., "D001").
	Code string

	// Category is the error type (config, runtime, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New creates an error with the given code, category, and message.
func New(code string, category Category, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Wrap creates an error wrapping err.
func Wrap(err error, code string, category Category, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Wrapped:  err,
	}
}

// IsCategory reports whether err (or anything it wraps) is a structured
// error of the given category.
func IsCategory(err error, c Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == c
	}
	return false
}
