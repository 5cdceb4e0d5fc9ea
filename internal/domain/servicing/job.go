// Package servicing models the shop-floor work that follows a finished
// repair order: checking the customer, assigning a technician, doing the
// work and settling the invoice. Like repair.Order, a Job carries its state
// in its type so each step only accepts the state it starts from.
package servicing

import (
	"fmt"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/branch"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

// StateLabel names a servicing state
type StateLabel string

const (
	LabelAccepted          StateLabel = "Accepted"
	LabelValid             StateLabel = "Valid"
	LabelRejected          StateLabel = "Rejected"
	LabelInProgress        StateLabel = "InProgress"
	LabelWorkDone          StateLabel = "WorkDone"
	LabelWaitingForPayment StateLabel = "WaitingForPayment"
	LabelPaid              StateLabel = "Paid"
)

// String returns the string representation of the label
func (l StateLabel) String() string {
	return string(l)
}

// IsTerminal reports whether no step leaves l
func (l StateLabel) IsTerminal() bool {
	return l == LabelRejected || l == LabelPaid
}

// CanTransitionTo checks if a job can move from l to next
func (l StateLabel) CanTransitionTo(next StateLabel) bool {
	allowed := map[StateLabel][]StateLabel{
		LabelAccepted:          {LabelValid, LabelRejected},
		LabelValid:             {LabelInProgress},
		LabelInProgress:        {LabelWorkDone},
		LabelWorkDone:          {LabelWaitingForPayment},
		LabelWaitingForPayment: {LabelPaid},
	}

	for _, s := range allowed[l] {
		if s == next {
			return true
		}
	}
	return false
}

// State is implemented only by the servicing states below
type State interface {
	Label() StateLabel
	sealed()
}

// Technician is a shop employee who can work on a job
type Technician struct {
	Name string
}

type (
	// Accepted is a finished repair order handed to the shop floor
	Accepted struct{}
	// Valid is a job whose customer may be served
	Valid struct{}
	// Rejected is a job refused because of the customer's status
	Rejected struct {
		ValidationErrors []string
	}
	// InProgress is a job assigned to a technician with the steps still to do
	InProgress struct {
		Technician Technician
		StepsLeft  []string
	}
	// WorkDone is a job whose steps are all done
	WorkDone struct {
		Technician Technician
	}
	// WaitingForPayment is an invoiced job
	WaitingForPayment struct {
		Invoice string
	}
	// Paid is a settled job
	Paid struct {
		Invoice string
	}
)

func (Accepted) Label() StateLabel          { return LabelAccepted }
func (Valid) Label() StateLabel             { return LabelValid }
func (Rejected) Label() StateLabel          { return LabelRejected }
func (InProgress) Label() StateLabel        { return LabelInProgress }
func (WorkDone) Label() StateLabel          { return LabelWorkDone }
func (WaitingForPayment) Label() StateLabel { return LabelWaitingForPayment }
func (Paid) Label() StateLabel              { return LabelPaid }

func (Accepted) sealed()          {}
func (Valid) sealed()             {}
func (Rejected) sealed()          {}
func (InProgress) sealed()        {}
func (WorkDone) sealed()          {}
func (WaitingForPayment) sealed() {}
func (Paid) sealed()              {}

// Job is the servicing of one order in state S
type Job[S State] struct {
	repair.Identity
	State S
}

// Outcome is how a servicing run ends
type Outcome = branch.Result[Job[Paid], Job[Rejected]]

// Accept hands a finished repair order to the shop floor. Only finished
// orders are accepted; the other terminal states never reach servicing.
func Accept(o repair.Order[repair.Finished]) Job[Accepted] {
	return Job[Accepted]{Identity: o.Identity, State: Accepted{}}
}

// Validate refuses customers with outstanding debt or a ban
func Validate(j Job[Accepted]) branch.Result[Job[Valid], Job[Rejected]] {
	var errs []string
	if j.Customer.HasOutstandingDebt {
		errs = append(errs, "Customer has outstanding debt")
	}
	if j.Customer.IsBanned {
		errs = append(errs, "Customer is banned from the shop")
	}
	if len(errs) > 0 {
		return branch.Err[Job[Valid]](moveJob(j, Rejected{ValidationErrors: errs}))
	}
	return branch.Ok[Job[Valid], Job[Rejected]](moveJob(j, Valid{}))
}

// Label returns the label of the job's current state
func (j Job[S]) Label() StateLabel {
	return j.State.Label()
}

// String returns a short description of the job
func (j Job[S]) String() string {
	return fmt.Sprintf("job %d (%s)", j.OrderNumber, j.State.Label())
}

func moveJob[S, T State](j Job[S], next T) Job[T] {
	return Job[T]{Identity: j.Identity, State: next}
}
