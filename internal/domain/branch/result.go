package branch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnpopulated is raised when a zero outcome value is matched
	ErrUnpopulated = errors.New("branch: outcome has no populated alternative")

	// ErrMissingHandler is raised when a match is missing the handler for an alternative
	ErrMissingHandler = errors.New("branch: missing handler")
)

// Result is a two-way outcome: the next state on success or the branch
// state on failure. E is a state value, not an error.
type Result[T, E any] struct {
	populated bool
	ok        bool
	value     T
	failure   E
}

// Ok creates a successful Result
func Ok[T, E any](v T) Result[T, E] {
	return Result[T, E]{populated: true, ok: true, value: v}
}

// Err creates a failed Result
func Err[T, E any](f E) Result[T, E] {
	return Result[T, E]{populated: true, failure: f}
}

// IsOk reports whether the success alternative is populated
func (r Result[T, E]) IsOk() bool {
	return r.populated && r.ok
}

// Switch calls onOk or onErr depending on the populated alternative
func (r Result[T, E]) Switch(onOk func(T), onErr func(E)) {
	mustHandlers(onOk != nil, onErr != nil)
	if !r.populated {
		panic(ErrUnpopulated)
	}
	if r.ok {
		onOk(r.value)
		return
	}
	onErr(r.failure)
}

// Fold maps either alternative of r to an R
func Fold[T, E, R any](r Result[T, E], onOk func(T) R, onErr func(E) R) R {
	mustHandlers(onOk != nil, onErr != nil)
	if !r.populated {
		panic(ErrUnpopulated)
	}
	if r.ok {
		return onOk(r.value)
	}
	return onErr(r.failure)
}

// Then chains the next step onto a successful Result and passes failures through
func Then[T, U, E any](r Result[T, E], next func(T) Result[U, E]) Result[U, E] {
	return Fold(r, next, Err[U, E])
}

// Map transforms the success value of r
func Map[T, U, E any](r Result[T, E], f func(T) U) Result[U, E] {
	return Fold(r, func(v T) Result[U, E] { return Ok[U, E](f(v)) }, Err[U, E])
}

// MapErr transforms the failure value of r
func MapErr[T, E, F any](r Result[T, E], f func(E) F) Result[T, F] {
	return Fold(r, Ok[T, F], func(e E) Result[T, F] { return Err[T, F](f(e)) })
}

// String returns a short description of the populated alternative
func (r Result[T, E]) String() string {
	switch {
	case !r.populated:
		return "none"
	case r.ok:
		return fmt.Sprintf("Ok(%v)", r.value)
	default:
		return fmt.Sprintf("Err(%v)", r.failure)
	}
}
