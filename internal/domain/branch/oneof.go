// Package branch provides outcome values for transitions that can land in
// more than one next state.
//
// OneOf4 holds exactly one of four labeled alternatives and Result holds
// exactly one of two. Both can only be taken apart through Match/Switch,
// which demand a handler for every alternative, so a call site cannot
// forget a branch.
package branch

import "fmt"

// Label identifies which alternative of a OneOf4 is populated
type Label int

const (
	// LabelNone is the label of the zero value; it is never a valid outcome
	LabelNone Label = iota
	LabelA
	LabelB
	LabelC
	LabelD
)

// String returns the string representation of the label
func (l Label) String() string {
	switch l {
	case LabelA:
		return "A"
	case LabelB:
		return "B"
	case LabelC:
		return "C"
	case LabelD:
		return "D"
	default:
		return "none"
	}
}

// OneOf4 is a value that is exactly one of A, B, C or D
type OneOf4[A, B, C, D any] struct {
	label Label
	a     A
	b     B
	c     C
	d     D
}

// OfA creates a OneOf4 populated with its first alternative
func OfA[A, B, C, D any](v A) OneOf4[A, B, C, D] {
	return OneOf4[A, B, C, D]{label: LabelA, a: v}
}

// OfB creates a OneOf4 populated with its second alternative
func OfB[A, B, C, D any](v B) OneOf4[A, B, C, D] {
	return OneOf4[A, B, C, D]{label: LabelB, b: v}
}

// OfC creates a OneOf4 populated with its third alternative
func OfC[A, B, C, D any](v C) OneOf4[A, B, C, D] {
	return OneOf4[A, B, C, D]{label: LabelC, c: v}
}

// OfD creates a OneOf4 populated with its fourth alternative
func OfD[A, B, C, D any](v D) OneOf4[A, B, C, D] {
	return OneOf4[A, B, C, D]{label: LabelD, d: v}
}

// Label returns which alternative is populated
func (o OneOf4[A, B, C, D]) Label() Label {
	return o.label
}

// Switch calls the handler of the populated alternative.
// Every handler is required; a nil handler or a zero OneOf4 panics.
func (o OneOf4[A, B, C, D]) Switch(onA func(A), onB func(B), onC func(C), onD func(D)) {
	mustHandlers(onA != nil, onB != nil, onC != nil, onD != nil)
	switch o.label {
	case LabelA:
		onA(o.a)
	case LabelB:
		onB(o.b)
	case LabelC:
		onC(o.c)
	case LabelD:
		onD(o.d)
	default:
		panic(ErrUnpopulated)
	}
}

// Match maps the populated alternative of o to an R.
// Every handler is required; a nil handler or a zero OneOf4 panics.
func Match[A, B, C, D, R any](o OneOf4[A, B, C, D], onA func(A) R, onB func(B) R, onC func(C) R, onD func(D) R) R {
	mustHandlers(onA != nil, onB != nil, onC != nil, onD != nil)
	switch o.label {
	case LabelA:
		return onA(o.a)
	case LabelB:
		return onB(o.b)
	case LabelC:
		return onC(o.c)
	case LabelD:
		return onD(o.d)
	default:
		panic(ErrUnpopulated)
	}
}

// Get returns the populated alternative as an untyped value.
// Intended for logging and tests; dispatch should go through Match.
func (o OneOf4[A, B, C, D]) Get() any {
	switch o.label {
	case LabelA:
		return o.a
	case LabelB:
		return o.b
	case LabelC:
		return o.c
	case LabelD:
		return o.d
	default:
		return nil
	}
}

// String returns the label and the populated value
func (o OneOf4[A, B, C, D]) String() string {
	return fmt.Sprintf("%s(%v)", o.label, o.Get())
}

func mustHandlers(present ...bool) {
	for i, ok := range present {
		if !ok {
			panic(fmt.Errorf("%w: handler %d", ErrMissingHandler, i+1))
		}
	}
}
