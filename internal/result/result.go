// Package result carries the outcome of business operations that can fail
// for expected reasons. Failures are values, not panics.
package result

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidState      Kind = "invalid_state"
	InvalidArgument   Kind = "invalid_argument"
	InsufficientStock Kind = "insufficient_stock"
	NotFound          Kind = "not_found"
	Conflict          Kind = "conflict"
)

// Result is the outcome of an operation with no payload.
type Result struct {
	failed  bool
	kind    Kind
	message string
}

func Ok() Result {
	return Result{}
}

func Fail(kind Kind, message string) Result {
	return Result{failed: true, kind: kind, message: message}
}

func Failf(kind Kind, format string, args ...any) Result {
	return Fail(kind, fmt.Sprintf(format, args...))
}

func (r Result) IsSuccess() bool { return !r.failed }
func (r Result) IsFailure() bool { return r.failed }
func (r Result) Kind() Kind      { return r.kind }
func (r Result) Message() string { return r.message }

// Err returns nil on success and a *Error otherwise.
func (r Result) Err() error {
	if !r.failed {
		return nil
	}
	return &Error{Kind: r.kind, Message: r.message}
}

// Value is a Result carrying a payload on success.
type Value[T any] struct {
	Result
	value T
}

func OkValue[T any](v T) Value[T] {
	return Value[T]{value: v}
}

func FailValue[T any](kind Kind, message string) Value[T] {
	return Value[T]{Result: Fail(kind, message)}
}

// Value returns the payload. It is the zero value when the result failed.
func (v Value[T]) Value() T {
	return v.value
}

// Error is the error form of a failed Result.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of a business failure anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
