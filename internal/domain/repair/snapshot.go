package repair

import "fmt"

// Snapshot is an order whose state is known only at run time. It is the
// closed labeled union used to checkpoint an order and to resume it.
type Snapshot struct {
	Identity
	State State
}

// Capture turns a typed order into a snapshot
func Capture[S State](o Order[S]) Snapshot {
	return Snapshot{Identity: o.Identity, State: o.State}
}

// Label returns the label of the captured state, or "" for an empty snapshot
func (s Snapshot) Label() StateLabel {
	if s.State == nil {
		return ""
	}
	return s.State.Label()
}

// Restore recovers a typed order from a snapshot. It fails with
// ErrStateMismatch when the snapshot holds a different state than S.
func Restore[S State](s Snapshot) (Order[S], error) {
	if s.State == nil {
		return Order[S]{}, ErrEmptySnapshot
	}
	state, ok := s.State.(S)
	if !ok {
		var want S
		return Order[S]{}, ErrStateMismatch.WithDetails(map[string]interface{}{
			"order_number": s.OrderNumber,
			"want":         want.Label().String(),
			"got":          s.State.Label().String(),
		})
	}
	return Order[S]{Identity: s.Identity, State: state}, nil
}

// String returns a short description of the snapshot
func (s Snapshot) String() string {
	if s.State == nil {
		return fmt.Sprintf("order %d (empty)", s.OrderNumber)
	}
	return fmt.Sprintf("order %d (%s)", s.OrderNumber, describeState(s.State))
}
