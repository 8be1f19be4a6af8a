package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryState     Category = "state"
	CategoryContext   Category = "context"
	CategoryLifecycle Category = "lifecycle"
	CategoryConfig    Category = "config"
)

// OverlayError is a structured error with a code, an explanation and a fix hint.
type OverlayError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (state, context, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the offending value.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *OverlayError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *OverlayError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an OverlayError with the same code.
func (e *OverlayError) Is(target error) bool {
	t, ok := target.(*OverlayError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *OverlayError) WithDetail(d string) *OverlayError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *OverlayError) WithSuggestion(s string) *OverlayError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *OverlayError) Wrap(err error) *OverlayError {
	e.Wrapped = err
	return e
}

// New creates an OverlayError from a registered error code.
func New(code string) *OverlayError {
	template, ok := registry[code]
	if !ok {
		return &OverlayError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &OverlayError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new OverlayError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *OverlayError {
	return &OverlayError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an OverlayError.
func FromError(err error, code string) *OverlayError {
	if err == nil {
		return nil
	}
	var oe *OverlayError
	if stderrors.As(err, &oe) {
		return oe
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err (or anything it wraps) is an OverlayError with code.
func HasCode(err error, code string) bool {
	var oe *OverlayError
	if !stderrors.As(err, &oe) {
		return false
	}
	return oe.Code == code
}
