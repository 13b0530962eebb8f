// Package errors provides the coded errors shared by the treemap packages.
//
// Every failure the engine, the pipeline or the server reports to a caller
// carries a [Code]. The CLI prints [UserMessage]; the server answers with
// [HTTPStatus] and the code string. Codes:
//
//   - INVALID_INPUT, INVALID_FORMAT: rejected arguments and malformed files
//   - NOT_LAID_OUT: a rectangle was read before any layout pass
//   - NOT_FOUND, FILE_NOT_FOUND, SESSION_NOT_FOUND: missing things
//   - OBSERVER_FAILED: a navigation observer panicked
//   - UNSUPPORTED, INTERNAL_ERROR: missing tools and unexpected failures
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "nil node at index %d", i)
//	err = errors.Wrap(errors.ErrCodeInvalidFormat, cause, "histogram line %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) { ... }
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeNotLaidOut Code = "NOT_LAID_OUT"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeObserver Code = "OBSERVER_FAILED"

	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's tree carries code. Joined errors
// are searched too.
func Is(err error, code Code) bool {
	found := false
	walk(err, func(e *Error) bool {
		found = e.Code == code
		return !found
	})
	return found
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err without codes. Messages of nested *Error values
// are joined with ": ", so "load: histogram line 3: unrecognized line"
// keeps its context. Causes that are not *Error are appended verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// HTTPStatus maps the outermost code of err to a response status.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeNotLaidOut:
		return http.StatusConflict
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// walk visits every *Error in err's tree, depth first, until fn returns false.
func walk(err error, fn func(*Error) bool) bool {
	if err == nil {
		return true
	}
	if e, ok := err.(*Error); ok && !fn(e) {
		return false
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if !walk(inner, fn) {
				return false
			}
		}
	case interface{ Unwrap() error }:
		return walk(u.Unwrap(), fn)
	}
	return true
}
