package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/metrics"
)

func runREPL(t *testing.T, input string, m *metrics.Metrics) string {
	t.Helper()
	engines := map[string]calc.Engine{
		"digits": calc.NewEvaluator(calc.DigitsEngine{}, m, nil),
		"std":    calc.NewEvaluator(calc.StdEngine{}, m, nil),
	}
	r := NewREPL(engines, m, REPLConfig{DefaultEngine: "digits", Timeout: time.Second})
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	r.Start()
	return out.String()
}

func TestREPLCommands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"bare expression", "12 * 34\nexit\n", []string{"= 408", "3 digit(s)", "Goodbye!"}},
		{"add command", "add 999 1\n", []string{"= 1000"}},
		{"sub command", "sub 5 8\n", []string{"= -3"}},
		{"mul command", "mul -4 -5\n", []string{"= 20"}},
		{"norm command", "norm -0000\n", []string{"= 0"}},
		{"previous result", "6 x 7\nans + 1\n", []string{"= 42", "= 43"}},
		{"format error", "12a + 1\n", []string{"Error: Incorrect Format"}},
		{"usage", "add 1\nnorm\n", []string{"Usage: add <a> <b>", "Usage: norm <a>"}},
		{"unknown command", "frobnicate now\n", []string{"Unknown command: frobnicate"}},
		{"switch engine", "engine std\nstatus\n", []string{"Engine changed to: std", "Engine:         std", "System:         CPU "}},
		{"unknown engine", "engine abacus\n", []string{"Unknown engine: abacus", "digits, std"}},
		{"list", "list\n", []string{"► digits", "std"}},
		{"compare", "compare 99 * 99\n", []string{"Comparison for 99 * 99", "digits", "std", "9801", "✓"}},
		{"help", "help\n", []string{"compare <expr>", "metrics"}},
		{"no trailing newline", "1 + 1", []string{"= 2", "Goodbye!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := runREPL(t, tt.input, nil)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestREPLMetrics(t *testing.T) {
	t.Parallel()
	out := runREPL(t, "1 + 2\nmetrics\nstatus\n", metrics.New())
	for _, want := range []string{`bigcalc_operations_total{engine="digits",op="+"} 1`, "operations=1 failures=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if out := runREPL(t, "metrics\n", nil); !strings.Contains(out, "Metrics are not enabled") {
		t.Errorf("expected disabled notice:\n%s", out)
	}
}

func TestNewREPLFallsBackToFirstEngine(t *testing.T) {
	t.Parallel()
	engines := map[string]calc.Engine{"std": calc.StdEngine{}, "digits": calc.DigitsEngine{}}
	r := NewREPL(engines, nil, REPLConfig{DefaultEngine: "all"})
	if r.currentEngine != "digits" {
		t.Errorf("currentEngine = %q, want digits", r.currentEngine)
	}
}
