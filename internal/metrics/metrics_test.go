package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsObserve(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveEvaluation("digits", "+", 3*time.Microsecond, 4)
	m.ObserveEvaluation("digits", "*", 5*time.Microsecond, 12)
	m.ObserveEvaluation("std", "+", time.Microsecond, 4)
	m.ObserveFailure("digits", "format")

	s, err := m.Summarize()
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s.Operations != 3 {
		t.Errorf("Operations = %d, want 3", s.Operations)
	}
	if s.Failures != 1 {
		t.Errorf("Failures = %d, want 1", s.Failures)
	}
	if got, want := s.String(), "operations=3 failures=1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMetricsWriteText(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveEvaluation("digits", "norm", time.Microsecond, 1)

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE bigcalc_operations_total counter",
		`bigcalc_operations_total{engine="digits",op="norm"} 1`,
		"bigcalc_evaluation_duration_seconds_bucket",
		"bigcalc_result_digits_count",
		"bigcalc_heap_alloc_bytes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteText() output missing %q", want)
		}
	}
}

func TestMetricsIndependentRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.ObserveEvaluation("digits", "+", time.Microsecond, 1)

	s, err := b.Summarize()
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s.Operations != 0 {
		t.Errorf("second registry saw %d operations, want 0", s.Operations)
	}
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveEvaluation("digits", "+", time.Microsecond, 1)
	m.ObserveFailure("digits", "other")
	if err := m.WriteText(&bytes.Buffer{}); err != nil {
		t.Errorf("WriteText() on nil = %v", err)
	}
	if s, _ := m.Summarize(); s != (Summary{}) {
		t.Errorf("Summarize() on nil = %+v", s)
	}
}
