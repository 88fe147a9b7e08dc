// Package validation decides whether a proposed DNS record mutation is
// acceptable. Field validators check single values, record validators
// combine them with point queries against the zone's existing records,
// and the Engine dispatches a candidate to the validator for its type.
//
// Expected rejections are reported as a failed Result; only problems that
// prevent a decision (unknown type, unreachable storage, bad settings)
// are returned as errors.
package validation

import "fmt"

// Result is the outcome of a validation step: either validated data or a
// user facing message, never both.
type Result[T any] struct {
	valid   bool
	data    T
	message string
}

// Success wraps validated data
func Success[T any](data T) Result[T] {
	return Result[T]{valid: true, data: data}
}

// Failure wraps a rejection message
func Failure[T any](message string) Result[T] {
	return Result[T]{message: message}
}

// Failuref formats a rejection message
func Failuref[T any](format string, args ...any) Result[T] {
	return Result[T]{message: fmt.Sprintf(format, args...)}
}

// IsValid reports whether the result was built with Success
func (r Result[T]) IsValid() bool {
	return r.valid
}

// Data returns the validated data. It panics on a failed result.
func (r Result[T]) Data() T {
	if !r.valid {
		panic("validation: Data called on a failed result: " + r.message)
	}
	return r.data
}

// Message returns the rejection message. It panics on a successful result.
func (r Result[T]) Message() string {
	if r.valid {
		panic("validation: Message called on a successful result")
	}
	return r.message
}

// fail re-types a failed result so a field failure can end a record
// validation.
func fail[T, U any](r Result[U]) Result[T] {
	return Result[T]{message: r.Message()}
}
