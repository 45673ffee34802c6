package model

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates brigade errors.
type ErrorKind string

const (
	ErrorKindParse      ErrorKind = "parse"
	ErrorKindTransport  ErrorKind = "transport"
	ErrorKindSpawn      ErrorKind = "spawn"
	ErrorKindStarvation ErrorKind = "starvation"
	ErrorKindCapacity   ErrorKind = "capacity"
)

// Error is the single error type returned by brigade components.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError creates an error of the supplied kind
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf creates an error of the supplied kind with a formatted cause
func Errorf(kind ErrorKind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// IsKind returns true when err wraps an *Error of the supplied kind.
func IsKind(err error, kind ErrorKind) bool {
	var target *Error
	if !errors.As(err, &target) {
		return false
	}
	return target.Kind == kind
}
