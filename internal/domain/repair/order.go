// Package repair models a vehicle repair order as a typed state machine.
//
// An order is an Order[S] where S is one of the states in state.go.
// Transitions live on Executor and accept exactly one source state type,
// so calling a transition on the wrong state does not compile and terminal
// states have no transitions at all. Driver composes the transitions into
// a full run and Snapshot carries an order across process boundaries.
package repair

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Customer is the customer status supplied with the order
type Customer struct {
	HasOutstandingDebt bool
	IsBanned           bool
}

// Identity holds the fields of an order that never change across transitions
type Identity struct {
	OrderNumber       uint64
	DamageDescription *string
	Vehicle           string
	Customer          Customer
}

// Order is a repair order in state S
type Order[S State] struct {
	Identity
	State S
}

// NewOrder creates an order in the New state.
// Vehicle and damage text are NFKC-normalized and trimmed.
func NewOrder(orderNumber uint64, vehicle string, damageDescription *string, customer Customer) (Order[New], error) {
	vehicle = normalizeText(vehicle)
	if vehicle == "" {
		return Order[New]{}, ErrInvalidOrder.WithDetails(map[string]interface{}{
			"order_number": orderNumber,
			"field":        "vehicle",
		})
	}

	var damage *string
	if damageDescription != nil {
		d := normalizeText(*damageDescription)
		damage = &d
	}

	return Order[New]{
		Identity: Identity{
			OrderNumber:       orderNumber,
			DamageDescription: damage,
			Vehicle:           vehicle,
			Customer:          customer,
		},
		State: New{},
	}, nil
}

// WithState moves the identity of o into a new state
func WithState[S, T State](o Order[S], next T) Order[T] {
	return Order[T]{Identity: o.Identity, State: next}
}

// Label returns the label of the order's current state
func (o Order[S]) Label() StateLabel {
	return o.State.Label()
}

// String returns a short description of the order
func (o Order[S]) String() string {
	return fmt.Sprintf("order %d (%s)", o.OrderNumber, describeState(o.State))
}

func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}
