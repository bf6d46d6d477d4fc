package calc

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/metrics"
)

func TestEvaluatorRecordsSuccess(t *testing.T) {
	t.Parallel()
	m := metrics.New()
	ev := NewEvaluator(DigitsEngine{}, m, nil)

	got, err := ev.Evaluate(context.Background(), expr.Expression{Op: expr.OpMul, Left: "-11", Right: "11"})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if got != "-121" {
		t.Errorf("Evaluate = %s, want -121", got)
	}
	if ev.Name() != "digits" {
		t.Errorf("Name() = %q", ev.Name())
	}

	s, err := m.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if s.Operations != 1 || s.Failures != 0 {
		t.Errorf("summary = %+v, want 1 operation", s)
	}
}

func TestEvaluatorRecordsFailure(t *testing.T) {
	t.Parallel()
	m := metrics.New()
	var logBuf bytes.Buffer
	ev := NewEvaluator(StdEngine{}, m, logging.NewLogger(&logBuf, "calc"))

	_, err := ev.Evaluate(context.Background(), expr.Expression{Op: expr.OpNormalize, Left: "12 34"})
	if err == nil {
		t.Fatal("expected error")
	}

	s, _ := m.Summarize()
	if s.Failures != 1 {
		t.Errorf("Failures = %d, want 1", s.Failures)
	}
	if !strings.Contains(logBuf.String(), `"kind":"format"`) {
		t.Errorf("log output missing format kind: %s", logBuf.String())
	}
}

func TestEvaluatorCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := NewEvaluator(DigitsEngine{}, nil, nil)
	_, err := ev.Evaluate(ctx, expr.Expression{Op: expr.OpNormalize, Left: "1"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEvaluatorDeadlineDuringMultiply(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	m := metrics.New()
	ev := NewEvaluator(DigitsEngine{}, m, nil)
	operand := strings.Repeat("7", 8000)
	got, err := ev.Evaluate(ctx, expr.Expression{Op: expr.OpMul, Left: operand, Right: operand})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if got != "" {
		t.Errorf("value = %.20s..., want empty", got)
	}
	if s, _ := m.Summarize(); s.Operations != 0 || s.Failures != 1 {
		t.Errorf("summary = %+v, want one failure and no operations", s)
	}
}

// blockingEngine never returns until release is closed.
type blockingEngine struct {
	release chan struct{}
}

func (blockingEngine) Name() string { return "blocking" }

func (b blockingEngine) Evaluate(context.Context, expr.Expression) (string, error) {
	<-b.release
	return "1", nil
}

func TestEvaluatorDoesNotWaitForEngine(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ev := NewEvaluator(blockingEngine{release: release}, nil, nil)
	_, err := ev.Evaluate(ctx, expr.Expression{Op: expr.OpNormalize, Left: "1"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()
	wrapped := Wrap([]Engine{DigitsEngine{}, StdEngine{}}, nil, nil)
	if len(wrapped) != 2 {
		t.Fatalf("len = %d", len(wrapped))
	}
	for i, want := range []string{"digits", "std"} {
		if _, ok := wrapped[i].(*Evaluator); !ok {
			t.Errorf("wrapped[%d] is %T, want *Evaluator", i, wrapped[i])
		}
		if wrapped[i].Name() != want {
			t.Errorf("wrapped[%d].Name() = %q, want %q", i, wrapped[i].Name(), want)
		}
	}
}
