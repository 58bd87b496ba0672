package backend

import (
	"fmt"
	"strings"
)

// ErrorType represents the category of a backend failure
type ErrorType string

const (
	// ErrTypeRequest indicates the request could not be built
	ErrTypeRequest ErrorType = "request"

	// ErrTypeNetwork indicates a transport failure (refused, reset, DNS)
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeStatus indicates a non-2xx HTTP status
	ErrTypeStatus ErrorType = "status"

	// ErrTypeDecode indicates a body that is not the expected JSON
	ErrTypeDecode ErrorType = "decode"

	// ErrTypeServer indicates a 2xx answer that reports a server-side error
	ErrTypeServer ErrorType = "server"

	// ErrTypeCanceled indicates the caller abandoned the request
	ErrTypeCanceled ErrorType = "canceled"
)

// Error describes a failed backend call
type Error struct {
	Type       ErrorType
	Op         string
	StatusCode int
	Message    string
	RequestID  string
	Cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("op=%s", e.Op), fmt.Sprintf("type=%s", e.Type)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by type, so errors.Is(err, ErrNetwork) works
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Type == t.Type
	}
	return false
}

// Sentinels for errors.Is comparisons
var (
	ErrRequest  = &Error{Type: ErrTypeRequest}
	ErrNetwork  = &Error{Type: ErrTypeNetwork}
	ErrStatus   = &Error{Type: ErrTypeStatus}
	ErrDecode   = &Error{Type: ErrTypeDecode}
	ErrServer   = &Error{Type: ErrTypeServer}
	ErrCanceled = &Error{Type: ErrTypeCanceled}
)

func newError(errType ErrorType, op, message string, cause error) *Error {
	return &Error{Type: errType, Op: op, Message: message, Cause: cause}
}
