package repair

import (
	"errors"
	"fmt"
)

// RepairError represents a contract violation raised by the repair domain.
// Branch outcomes such as Invalid or Garbage are states, never errors.
type RepairError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e RepairError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s %v", e.Code, e.Message, e.Details)
}

// Is matches repair errors by code so detailed copies still satisfy errors.Is
func (e RepairError) Is(target error) bool {
	t, ok := target.(RepairError)
	return ok && t.Code == e.Code
}

// Common repair errors
var (
	// ErrTerminalState indicates an operation on a state with no transitions
	ErrTerminalState = RepairError{
		Code:    "REPAIR_TERMINAL_STATE",
		Message: "No transition is defined on a terminal state",
	}

	// ErrReservedState indicates an operation on a reserved state
	ErrReservedState = RepairError{
		Code:    "REPAIR_RESERVED_STATE",
		Message: "State is reserved and has no transitions",
	}

	// ErrStateMismatch indicates a snapshot restored as the wrong state type
	ErrStateMismatch = RepairError{
		Code:    "REPAIR_STATE_MISMATCH",
		Message: "Snapshot holds a different state",
	}

	// ErrUnknownState indicates a label outside the state set
	ErrUnknownState = RepairError{
		Code:    "REPAIR_UNKNOWN_STATE",
		Message: "Unknown state label",
	}

	// ErrEmptySnapshot indicates a snapshot without a state
	ErrEmptySnapshot = RepairError{
		Code:    "REPAIR_EMPTY_SNAPSHOT",
		Message: "Snapshot has no state",
	}

	// ErrInvalidOrder indicates identity fields that cannot form an order
	ErrInvalidOrder = RepairError{
		Code:    "REPAIR_INVALID_ORDER",
		Message: "Order identity is incomplete",
	}
)

// WithDetails adds details to an existing error
func (e RepairError) WithDetails(details map[string]interface{}) RepairError {
	e.Details = details
	return e
}

// IsTerminal checks if the error is a terminal state error
func IsTerminal(err error) bool {
	return errors.Is(err, ErrTerminalState)
}

// IsStateMismatch checks if the error is a state mismatch error
func IsStateMismatch(err error) bool {
	return errors.Is(err, ErrStateMismatch)
}

// IsContractViolation checks if the error is a programming error against
// the state machine rather than a recoverable condition
func IsContractViolation(err error) bool {
	var repairErr RepairError
	if !errors.As(err, &repairErr) {
		return false
	}
	switch repairErr.Code {
	case ErrTerminalState.Code, ErrReservedState.Code, ErrStateMismatch.Code, ErrEmptySnapshot.Code:
		return true
	default:
		return false
	}
}
