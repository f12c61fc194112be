package chatroom_errors

import (
	"errors"
	"fmt"
)

// Codes follow the range convention used across every feature:
// 1xx input could not be parsed, 2xx parsed but invalid,
// 3xx missing row or missing permission (deliberately conflated),
// 401 underlying store failure.
const (
	CodeStore = 401

	// CodeOK is the universal success sentinel surfaced to clients.
	CodeOK = 7898
)

// Error is the failure value returned by every feature operation.
// Data carries the wrapped store error for CodeStore and is never
// serialized back to clients.
type Error struct {
	Feature string
	Code    int
	Data    any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s[%d]", e.Feature, e.Code)
}

func (e *Error) Unwrap() error {
	if cause, ok := e.Data.(error); ok {
		return cause
	}
	return nil
}

func New(feature string, code int) *Error {
	return &Error{Feature: feature, Code: code}
}

func WithData(feature string, code int, data any) *Error {
	return &Error{Feature: feature, Code: code, Data: data}
}

// Store wraps an opaque store error without interpreting it.
func Store(feature string, err error) *Error {
	return &Error{Feature: feature, Code: CodeStore, Data: err}
}

// From extracts a feature error from an error chain.
func From(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsStore reports whether err is a wrapped store failure.
func IsStore(err error) bool {
	fe, ok := From(err)
	return ok && fe.Code == CodeStore
}
