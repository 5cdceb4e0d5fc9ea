package repair

import "fmt"

// StateLabel names a state of the closed repair order state set
type StateLabel string

const (
	LabelNew                       StateLabel = "New"
	LabelInvalid                   StateLabel = "Invalid"
	LabelRecovered                 StateLabel = "Recovered"
	LabelAprilFools                StateLabel = "AprilFools"
	LabelLowPriority               StateLabel = "LowPriority"
	LabelHighPriority              StateLabel = "HighPriority"
	LabelWaitingForWorker          StateLabel = "WaitingForWorker"
	LabelGarbage                   StateLabel = "Garbage"
	LabelWaitingForPrinter         StateLabel = "WaitingForPrinter"
	LabelWaitingForFridayAfternoon StateLabel = "WaitingForFridayAfternoon"
	LabelWorkInProgress            StateLabel = "WorkInProgress"
	LabelKrangled                  StateLabel = "Krangled"
	LabelFinished                  StateLabel = "Finished"
)

// Labels returns every label of the state set in catalog order
func Labels() []StateLabel {
	return []StateLabel{
		LabelNew, LabelInvalid, LabelRecovered, LabelAprilFools,
		LabelLowPriority, LabelHighPriority, LabelWaitingForWorker, LabelGarbage,
		LabelWaitingForPrinter, LabelWaitingForFridayAfternoon, LabelWorkInProgress,
		LabelKrangled, LabelFinished,
	}
}

// String returns the string representation of the label
func (l StateLabel) String() string {
	return string(l)
}

// IsValid returns true if the label belongs to the state set
func (l StateLabel) IsValid() bool {
	switch l {
	case LabelNew, LabelInvalid, LabelRecovered, LabelAprilFools,
		LabelLowPriority, LabelHighPriority, LabelWaitingForWorker, LabelGarbage,
		LabelWaitingForPrinter, LabelWaitingForFridayAfternoon, LabelWorkInProgress,
		LabelKrangled, LabelFinished:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no transition is defined on the state
func (l StateLabel) IsTerminal() bool {
	switch l {
	case LabelFinished, LabelAprilFools, LabelGarbage, LabelKrangled:
		return true
	default:
		return false
	}
}

// IsReserved returns true for catalog states that no transition reaches yet
func (l StateLabel) IsReserved() bool {
	return l == LabelWaitingForFridayAfternoon || l == LabelWorkInProgress
}

// CanTransitionTo reports whether the executor has an edge from l to next
func (l StateLabel) CanTransitionTo(next StateLabel) bool {
	validTransitions := map[StateLabel][]StateLabel{
		LabelNew:               {LabelInvalid, LabelLowPriority, LabelHighPriority, LabelAprilFools},
		LabelInvalid:           {LabelRecovered, LabelKrangled},
		LabelRecovered:         {LabelLowPriority},
		LabelLowPriority:       {LabelWaitingForWorker, LabelHighPriority},
		LabelHighPriority:      {LabelWaitingForWorker},
		LabelWaitingForWorker:  {LabelWaitingForPrinter, LabelGarbage},
		LabelWaitingForPrinter: {LabelFinished},
	}

	allowed, exists := validTransitions[l]
	if !exists {
		return false
	}

	for _, validNext := range allowed {
		if validNext == next {
			return true
		}
	}
	return false
}

// ParseStateLabel parses an exact label name
func ParseStateLabel(s string) (StateLabel, error) {
	l := StateLabel(s)
	if !l.IsValid() {
		return "", ErrUnknownState.WithDetails(map[string]interface{}{"label": s})
	}
	return l, nil
}

// State is a payload of the closed state set. Only the types declared in
// this file implement it.
type State interface {
	Label() StateLabel
	sealed()
}

// New is the initial state
type New struct{}

// Invalid is the failure branch of validation
type Invalid struct {
	ValidationErrors []string
}

// Recovered means validation was retried successfully
type Recovered struct{}

// AprilFools is a terminal novelty branch
type AprilFools struct{}

// LowPriority is the low priority classification
type LowPriority struct{}

// HighPriority is the high priority classification
type HighPriority struct{}

// WaitingForWorker means the order is queued for a technician
type WaitingForWorker struct{}

// Garbage is the terminal failure branch
type Garbage struct{}

// WaitingForPrinter means the order is queued for paperwork
type WaitingForPrinter struct{}

// WaitingForFridayAfternoon is reserved
type WaitingForFridayAfternoon struct{}

// WorkInProgress is reserved
type WorkInProgress struct{}

// Krangled is the terminal unrecoverable-error branch
type Krangled struct{}

// Finished is the terminal success state
type Finished struct{}

func (New) Label() StateLabel                       { return LabelNew }
func (Invalid) Label() StateLabel                   { return LabelInvalid }
func (Recovered) Label() StateLabel                 { return LabelRecovered }
func (AprilFools) Label() StateLabel                { return LabelAprilFools }
func (LowPriority) Label() StateLabel               { return LabelLowPriority }
func (HighPriority) Label() StateLabel              { return LabelHighPriority }
func (WaitingForWorker) Label() StateLabel          { return LabelWaitingForWorker }
func (Garbage) Label() StateLabel                   { return LabelGarbage }
func (WaitingForPrinter) Label() StateLabel         { return LabelWaitingForPrinter }
func (WaitingForFridayAfternoon) Label() StateLabel { return LabelWaitingForFridayAfternoon }
func (WorkInProgress) Label() StateLabel            { return LabelWorkInProgress }
func (Krangled) Label() StateLabel                  { return LabelKrangled }
func (Finished) Label() StateLabel                  { return LabelFinished }

func (New) sealed()                       {}
func (Invalid) sealed()                   {}
func (Recovered) sealed()                 {}
func (AprilFools) sealed()                {}
func (LowPriority) sealed()               {}
func (HighPriority) sealed()              {}
func (WaitingForWorker) sealed()          {}
func (Garbage) sealed()                   {}
func (WaitingForPrinter) sealed()         {}
func (WaitingForFridayAfternoon) sealed() {}
func (WorkInProgress) sealed()            {}
func (Krangled) sealed()                  {}
func (Finished) sealed()                  {}

// StateFor returns the payload-free state value for a label. Invalid is
// returned with no validation errors.
func StateFor(l StateLabel) (State, error) {
	switch l {
	case LabelNew:
		return New{}, nil
	case LabelInvalid:
		return Invalid{}, nil
	case LabelRecovered:
		return Recovered{}, nil
	case LabelAprilFools:
		return AprilFools{}, nil
	case LabelLowPriority:
		return LowPriority{}, nil
	case LabelHighPriority:
		return HighPriority{}, nil
	case LabelWaitingForWorker:
		return WaitingForWorker{}, nil
	case LabelGarbage:
		return Garbage{}, nil
	case LabelWaitingForPrinter:
		return WaitingForPrinter{}, nil
	case LabelWaitingForFridayAfternoon:
		return WaitingForFridayAfternoon{}, nil
	case LabelWorkInProgress:
		return WorkInProgress{}, nil
	case LabelKrangled:
		return Krangled{}, nil
	case LabelFinished:
		return Finished{}, nil
	default:
		return nil, ErrUnknownState.WithDetails(map[string]interface{}{"label": string(l)})
	}
}

func describeState(s State) string {
	if inv, ok := s.(Invalid); ok {
		return fmt.Sprintf("%s%v", inv.Label(), inv.ValidationErrors)
	}
	return s.Label().String()
}
