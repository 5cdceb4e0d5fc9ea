package branch

import (
	"errors"
	"strconv"
	"testing"
)

type four = OneOf4[int, string, bool, float64]

func describe(o four) string {
	return Match(o,
		func(a int) string { return "A:" + strconv.Itoa(a) },
		func(b string) string { return "B:" + b },
		func(c bool) string { return "C:" + strconv.FormatBool(c) },
		func(d float64) string { return "D:" + strconv.FormatFloat(d, 'f', 1, 64) },
	)
}

func TestOneOf4_Match(t *testing.T) {
	tests := []struct {
		name      string
		value     four
		wantLabel Label
		want      string
	}{
		{"first", OfA[int, string, bool, float64](7), LabelA, "A:7"},
		{"second", OfB[int, string, bool, float64]("x"), LabelB, "B:x"},
		{"third", OfC[int, string, bool, float64](true), LabelC, "C:true"},
		{"fourth", OfD[int, string, bool, float64](2.5), LabelD, "D:2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Label() != tt.wantLabel {
				t.Errorf("Label() = %s, want %s", tt.value.Label(), tt.wantLabel)
			}
			if got := describe(tt.value); got != tt.want {
				t.Errorf("Match() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOneOf4_SwitchCallsExactlyOneHandler(t *testing.T) {
	var calls []string
	OfC[int, string, bool, float64](false).Switch(
		func(int) { calls = append(calls, "a") },
		func(string) { calls = append(calls, "b") },
		func(bool) { calls = append(calls, "c") },
		func(float64) { calls = append(calls, "d") },
	)

	if len(calls) != 1 || calls[0] != "c" {
		t.Errorf("Expected only handler c to run, got %v", calls)
	}
}

func TestOneOf4_ZeroValuePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnpopulated) {
			t.Fatalf("Expected ErrUnpopulated panic, got %v", r)
		}
	}()

	var zero four
	describe(zero)
}

func TestOneOf4_MissingHandlerPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrMissingHandler) {
			t.Fatalf("Expected ErrMissingHandler panic, got %v", r)
		}
	}()

	OfA[int, string, bool, float64](1).Switch(func(int) {}, func(string) {}, nil, func(float64) {})
}

func TestResult_ThenShortCircuits(t *testing.T) {
	half := func(n int) Result[int, string] {
		if n%2 != 0 {
			return Err[int, string]("odd " + strconv.Itoa(n))
		}
		return Ok[int, string](n / 2)
	}

	got := Then(Then(Ok[int, string](8), half), half)
	if !got.IsOk() {
		t.Fatalf("Expected success, got %s", got)
	}
	if v := Fold(got, func(v int) int { return v }, func(string) int { return -1 }); v != 2 {
		t.Errorf("Expected 2, got %d", v)
	}

	var steps int
	failed := Then(Then(Ok[int, string](6), half), func(n int) Result[int, string] {
		steps++
		return half(n)
	})
	if failed.IsOk() {
		t.Fatal("Expected failure for 6 -> 3")
	}
	if steps != 1 {
		t.Errorf("Expected failing step to run once, ran %d times", steps)
	}
	if msg := Fold(failed, func(int) string { return "" }, func(e string) string { return e }); msg != "odd 3" {
		t.Errorf("Expected failure 'odd 3', got %q", msg)
	}
}

func TestResult_MapAndMapErr(t *testing.T) {
	ok := Map(Ok[int, string](3), func(n int) string { return strconv.Itoa(n * 10) })
	if got := Fold(ok, func(s string) string { return s }, func(string) string { return "" }); got != "30" {
		t.Errorf("Map() = %q, want 30", got)
	}

	failed := MapErr(Err[int, string]("bad"), func(e string) int { return len(e) })
	if got := Fold(failed, func(int) int { return 0 }, func(n int) int { return n }); got != 3 {
		t.Errorf("MapErr() = %d, want 3", got)
	}
}

func TestResult_ZeroValuePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Expected panic for zero Result")
		}
	}()

	var zero Result[int, string]
	zero.Switch(func(int) {}, func(string) {})
}
