package repair

import (
	"errors"
	"testing"
)

func TestStateLabel_Catalog(t *testing.T) {
	labels := Labels()
	if len(labels) != 13 {
		t.Fatalf("Expected 13 states, got %d", len(labels))
	}

	terminal := 0
	for _, l := range labels {
		if !l.IsValid() {
			t.Errorf("Label %s should be valid", l)
		}
		state, err := StateFor(l)
		if err != nil {
			t.Fatalf("StateFor(%s) failed: %v", l, err)
		}
		if state.Label() != l {
			t.Errorf("StateFor(%s).Label() = %s", l, state.Label())
		}
		if l.IsTerminal() {
			terminal++
		}
	}

	if terminal != 4 {
		t.Errorf("Expected 4 terminal states, got %d", terminal)
	}
}

func TestStateLabel_TerminalAndReservedHaveNoEdges(t *testing.T) {
	for _, from := range Labels() {
		if !from.IsTerminal() && !from.IsReserved() {
			continue
		}
		for _, to := range Labels() {
			if from.CanTransitionTo(to) {
				t.Errorf("Expected no edge %s -> %s", from, to)
			}
		}
	}
}

func TestStateLabel_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to StateLabel
		want     bool
	}{
		{LabelNew, LabelInvalid, true},
		{LabelNew, LabelAprilFools, true},
		{LabelNew, LabelFinished, false},
		{LabelInvalid, LabelKrangled, true},
		{LabelInvalid, LabelNew, false},
		{LabelLowPriority, LabelHighPriority, true},
		{LabelHighPriority, LabelLowPriority, false},
		{LabelWaitingForWorker, LabelGarbage, true},
		{LabelWaitingForPrinter, LabelFinished, true},
		{LabelFinished, LabelNew, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseStateLabel(t *testing.T) {
	l, err := ParseStateLabel("WaitingForPrinter")
	if err != nil || l != LabelWaitingForPrinter {
		t.Errorf("ParseStateLabel(WaitingForPrinter) = %s, %v", l, err)
	}

	for _, bad := range []string{"", "new", "Paid", "Finished "} {
		if _, err := ParseStateLabel(bad); !errors.Is(err, ErrUnknownState) {
			t.Errorf("ParseStateLabel(%q) error = %v, want ErrUnknownState", bad, err)
		}
	}
}

func TestNewOrder(t *testing.T) {
	damage := "  ｓｃｒａｔｃｈ  "
	o, err := NewOrder(42, " Ｖｏｌｖｏ ", &damage, Customer{IsBanned: true})
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}

	if o.Vehicle != "Volvo" {
		t.Errorf("Expected normalized vehicle 'Volvo', got %q", o.Vehicle)
	}
	if o.DamageDescription == nil || *o.DamageDescription != "scratch" {
		t.Errorf("Expected normalized damage 'scratch', got %v", o.DamageDescription)
	}
	if o.Label() != LabelNew {
		t.Errorf("Expected New, got %s", o.Label())
	}
	if !o.Customer.IsBanned {
		t.Error("Expected customer flags to be kept")
	}

	if _, err := NewOrder(1, "   ", nil, Customer{}); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("Expected ErrInvalidOrder for blank vehicle, got %v", err)
	}
}

func TestRepairError_Classification(t *testing.T) {
	detailed := ErrTerminalState.WithDetails(map[string]interface{}{"state": "Finished"})

	if !errors.Is(detailed, ErrTerminalState) {
		t.Error("Detailed copy should match ErrTerminalState")
	}
	if !IsTerminal(detailed) || !IsContractViolation(detailed) {
		t.Error("Terminal state error should be a contract violation")
	}
	if IsContractViolation(ErrUnknownState) {
		t.Error("Unknown state is a format problem, not a contract violation")
	}
	if IsContractViolation(errors.New("plain")) {
		t.Error("Plain errors are not contract violations")
	}
}
