package repair

import (
	"strings"
	"testing"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/branch"
)

func newTestOrder(t *testing.T, number uint64) Order[New] {
	t.Helper()
	damage := "dented bumper"
	o, err := NewOrder(number, "Volvo 240", &damage, Customer{})
	if err != nil {
		t.Fatalf("NewOrder(%d) failed: %v", number, err)
	}
	return o
}

func TestValidate_ClassifiesByOrderNumberModFour(t *testing.T) {
	x := NewExecutor(nil)
	want := map[uint64]StateLabel{
		0: LabelInvalid,
		1: LabelLowPriority,
		2: LabelHighPriority,
		3: LabelAprilFools,
	}

	for n := uint64(0); n < 400; n++ {
		classified := x.Validate(newTestOrder(t, n))
		got := branch.Match(classified,
			func(o Order[Invalid]) StateLabel { return o.Label() },
			func(o Order[LowPriority]) StateLabel { return o.Label() },
			func(o Order[HighPriority]) StateLabel { return o.Label() },
			func(o Order[AprilFools]) StateLabel { return o.Label() },
		)
		if got != want[n%4] {
			t.Errorf("Validate(%d) = %s, want %s", n, got, want[n%4])
		}
		if int(classified.Label())-1 != int(n%4) {
			t.Errorf("Validate(%d) populated alternative %s", n, classified.Label())
		}
	}
}

func TestValidate_InvalidCarriesValidationErrors(t *testing.T) {
	x := NewExecutor(nil)
	o, err := NewOrder(8, "Saab 900", nil, Customer{HasOutstandingDebt: true, IsBanned: true})
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}

	var invalid Order[Invalid]
	x.Validate(o).Switch(
		func(o Order[Invalid]) { invalid = o },
		func(Order[LowPriority]) { t.Fatal("Expected Invalid, got LowPriority") },
		func(Order[HighPriority]) { t.Fatal("Expected Invalid, got HighPriority") },
		func(Order[AprilFools]) { t.Fatal("Expected Invalid, got AprilFools") },
	)

	errs := invalid.State.ValidationErrors
	if len(errs) != 3 {
		t.Fatalf("Expected 3 validation errors, got %v", errs)
	}
	if errs[0] != "Customer has outstanding debt" || errs[1] != "Customer is banned from the shop" {
		t.Errorf("Unexpected customer errors: %v", errs)
	}
	if !strings.Contains(errs[2], "8") {
		t.Errorf("Expected classification error to name the order, got %q", errs[2])
	}
}

func TestRecover_TotalOverRecoveryLimit(t *testing.T) {
	x := NewExecutor(nil)
	numbers := []uint64{0, 4, 500, 996, 999, 1000, 1003, 1004, 5000}

	for _, n := range numbers {
		invalid := WithState(newTestOrder(t, n), Invalid{ValidationErrors: []string{"bad"}})
		result := x.Recover(invalid)

		got := branch.Fold(result,
			func(o Order[Recovered]) StateLabel { return o.Label() },
			func(o Order[Krangled]) StateLabel { return o.Label() },
		)
		want := LabelKrangled
		if n < 1000 {
			want = LabelRecovered
		}
		if got != want {
			t.Errorf("Recover(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestRecover_CustomLimit(t *testing.T) {
	x := NewExecutor(ReferencePolicy{RecoveryLimit: 10})
	invalid := WithState(newTestOrder(t, 12), Invalid{})

	if x.Recover(invalid).IsOk() {
		t.Error("Expected order 12 to be krangled with a recovery limit of 10")
	}
}

func TestPrioritize_AlwaysLowPriority(t *testing.T) {
	x := NewExecutor(nil)
	low := x.Prioritize(WithState(newTestOrder(t, 4), Recovered{}))

	if low.Label() != LabelLowPriority {
		t.Errorf("Expected LowPriority, got %s", low.Label())
	}
}

func TestEnqueue_EscalatesWhenNoSlot(t *testing.T) {
	x := NewExecutor(nil)
	tests := []struct {
		number uint64
		want   StateLabel
	}{
		{3, LabelWaitingForWorker},
		{4, LabelHighPriority},
		{5, LabelHighPriority},
		{9, LabelWaitingForWorker},
		{12, LabelWaitingForWorker},
	}

	for _, tt := range tests {
		low := WithState(newTestOrder(t, tt.number), LowPriority{})
		got := branch.Fold(x.Enqueue(low),
			func(o Order[WaitingForWorker]) StateLabel { return o.Label() },
			func(o Order[HighPriority]) StateLabel { return o.Label() },
		)
		if got != tt.want {
			t.Errorf("Enqueue(%d) = %s, want %s", tt.number, got, tt.want)
		}
	}
}

func TestEnqueueHighPriority_Unconditional(t *testing.T) {
	x := NewExecutor(nil)
	for _, n := range []uint64{1, 2, 7, 1001} {
		w := x.EnqueueHighPriority(WithState(newTestOrder(t, n), HighPriority{}))
		if w.Label() != LabelWaitingForWorker {
			t.Errorf("EnqueueHighPriority(%d) = %s, want WaitingForWorker", n, w.Label())
		}
	}
}

func TestSendPrintJob_PrintReadiness(t *testing.T) {
	x := NewExecutor(nil)
	for _, n := range []uint64{1, 2, 3, 4} {
		waiting := WithState(newTestOrder(t, n), WaitingForWorker{})
		result := x.SendPrintJob(waiting)
		if result.IsOk() != (n%2 == 0) {
			t.Errorf("SendPrintJob(%d) ok = %v, want %v", n, result.IsOk(), n%2 == 0)
		}
	}
}

func TestTransitions_PreserveIdentity(t *testing.T) {
	x := NewExecutor(nil)
	o := newTestOrder(t, 4)

	var finished Order[Finished]
	x.Validate(o).Switch(
		func(invalid Order[Invalid]) {
			x.Recover(invalid).Switch(
				func(r Order[Recovered]) {
					high := branch.Fold(x.Enqueue(x.Prioritize(r)),
						func(Order[WaitingForWorker]) Order[HighPriority] {
							t.Fatal("Expected escalation for order 4")
							return Order[HighPriority]{}
						},
						func(h Order[HighPriority]) Order[HighPriority] { return h },
					)
					x.SendPrintJob(x.EnqueueHighPriority(high)).Switch(
						func(p Order[WaitingForPrinter]) { finished = x.Print(p) },
						func(Order[Garbage]) { t.Fatal("Expected order 4 to be print-ready") },
					)
				},
				func(Order[Krangled]) { t.Fatal("Expected order 4 to recover") },
			)
		},
		func(Order[LowPriority]) { t.Fatal("unexpected LowPriority") },
		func(Order[HighPriority]) { t.Fatal("unexpected HighPriority") },
		func(Order[AprilFools]) { t.Fatal("unexpected AprilFools") },
	)

	if finished.OrderNumber != o.OrderNumber || finished.Vehicle != o.Vehicle ||
		*finished.DamageDescription != *o.DamageDescription || finished.Customer != o.Customer {
		t.Errorf("Identity changed across transitions: %+v -> %+v", o.Identity, finished.Identity)
	}
}
