package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies engine errors so transport layers can translate them without
// string matching. The taxonomy is deliberately small: every error a handler
// can see maps to exactly one code.
type Code string

const (
	// CodeInvalidTransition marks a lifecycle change outside the allowed
	// status graph. Nothing is persisted when it is returned.
	CodeInvalidTransition Code = "invalid_transition"

	// CodeValidation marks caller input rejected at the boundary, e.g. a
	// rejection reason that is too short. The caller must resubmit.
	CodeValidation Code = "validation_error"

	// CodeConfiguration marks a catalog or rule inconsistency. Raised at
	// startup, never at request time.
	CodeConfiguration Code = "configuration_error"

	CodeNotFound Code = "not_found"
	CodeConflict Code = "conflict"
	CodeInternal Code = "internal"
)

// Error carries a code plus a human-readable message. It wraps an optional
// cause so errors.Is/As keep working through the domain layer.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// non-domain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus keeps the error-to-status mapping in one place so every
// handler produces the same envelope for the same failure.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeInvalidTransition, CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConfiguration, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
