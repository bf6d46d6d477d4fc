package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/sysmon"
)

// fixedEngine answers every expression with the same value.
type fixedEngine struct {
	name  string
	value string
}

func (f fixedEngine) Name() string { return f.name }

func (f fixedEngine) Evaluate(context.Context, expr.Expression) (string, error) {
	return f.value, nil
}

func newTestModel(t *testing.T, engines ...calc.Engine) Model {
	t.Helper()
	if len(engines) == 0 {
		engines = []calc.Engine{calc.DigitsEngine{}, calc.StdEngine{}}
	}
	m := NewModel(context.Background(), engines, config.AppConfig{Timeout: time.Minute}, "v1.0.0")
	t.Cleanup(m.cancel)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

// submitLine types line, presses enter and feeds the evaluation result back.
func submitLine(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("submitting %q returned no command", line)
	}
	if !m.busy {
		t.Fatalf("model should be busy after submitting %q", line)
	}
	return update(t, m, cmd())
}

func TestModel_EvaluatesExpression(t *testing.T) {
	m := newTestModel(t)
	m = submitLine(t, m, "12 * 34")

	if m.busy {
		t.Error("model should be idle after completion")
	}
	if len(m.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.entries))
	}
	got := m.entries[0]
	if got.Source != "12 * 34" || got.Value != "408" || got.Err != nil {
		t.Errorf("entry = %+v", got)
	}
	if len(got.Results) != 2 {
		t.Errorf("expected per-engine results, got %d", len(got.Results))
	}
	if m.last != "408" {
		t.Errorf("last = %q, want 408", m.last)
	}
	if view := m.View(); !strings.Contains(view, "408") {
		t.Errorf("view should show the result:\n%s", view)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
}

func TestModel_PreviousResult(t *testing.T) {
	m := newTestModel(t)
	m = submitLine(t, m, "-99999999999999999999 + -1")
	m = submitLine(t, m, "ans x 2")

	if got := m.entries[1].Value; got != "-200000000000000000000" {
		t.Errorf("ans x 2 = %q", got)
	}
	if got := m.entries[1].Source; got != "ans x 2" {
		t.Errorf("history should keep the typed source, got %q", got)
	}
}

func TestModel_FormatError(t *testing.T) {
	m := newTestModel(t)
	m = submitLine(t, m, "12a + 1")

	e := m.entries[0]
	if !apperrors.IsFormatError(e.Err) {
		t.Fatalf("expected a format error, got %v", e.Err)
	}
	if e.ExitCode != apperrors.ExitErrorFormat {
		t.Errorf("ExitCode = %d, want %d", e.ExitCode, apperrors.ExitErrorFormat)
	}
	if m.last != "0" {
		t.Errorf("a failed evaluation must not replace the previous result, got %q", m.last)
	}
	if !strings.Contains(m.View(), "Incorrect Format") {
		t.Error("view should show the error")
	}
}

func TestModel_Mismatch(t *testing.T) {
	m := newTestModel(t, fixedEngine{"one", "1"}, fixedEngine{"two", "2"})
	m = submitLine(t, m, "1 + 1")

	e := m.entries[0]
	if !e.mismatch() {
		t.Fatalf("expected a mismatch, got exit code %d", e.ExitCode)
	}
	view := m.View()
	for _, want := range []string{"engines disagree", "one", "two"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_IgnoresBlankAndBusySubmissions(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("   ")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("blank input should not start an evaluation")
	}

	m.input.SetValue("# comment")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("comments should not start an evaluation")
	}

	m.busy = true
	m.input.SetValue("1 + 1")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("a second submission while busy should be ignored")
	}
}

func TestModel_StaleMessagesDropped(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("1 + 1")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	m = update(t, m, ProgressMsg{Seq: m.seq + 1, AverageProgress: 0.5})
	if m.progress != 0 {
		t.Error("progress from another submission should be ignored")
	}
	m = update(t, m, ProgressMsg{Seq: m.seq, AverageProgress: 0.5, ETA: time.Second})
	if m.progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", m.progress)
	}
	if !strings.Contains(m.View(), "50.0%") {
		t.Error("status line should show progress")
	}

	m = update(t, m, EvaluationCompleteMsg{Seq: m.seq - 1, Result: entry{Value: "stale"}})
	if len(m.entries) != 0 || !m.busy {
		t.Error("a stale completion should be ignored")
	}
}

func TestModel_HistoryRecallAndClear(t *testing.T) {
	m := newTestModel(t)
	m = submitLine(t, m, "1 + 2")
	m = submitLine(t, m, "3 * 4")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "3 * 4" {
		t.Errorf("first recall = %q, want %q", got, "3 * 4")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "1 + 2" {
		t.Errorf("recall should stop at the oldest input, got %q", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.input.Value(); got != "" {
		t.Errorf("moving past the newest input should clear the line, got %q", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.entries) != 0 {
		t.Errorf("ctrl+l should clear the history, %d entries left", len(m.entries))
	}
}

func TestModel_TypingGoesToInput(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("7")})
	if got := m.input.Value(); got != "7" {
		t.Errorf("input = %q, want 7", got)
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel the session context")
	}
}

func TestModel_ContextCancelled(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(ContextCancelledMsg{Err: context.Canceled})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("a cancelled session should quit")
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := NewModel(context.Background(), nil, config.AppConfig{}, "dev")
	defer m.cancel()
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestLayoutManager(t *testing.T) {
	l := LayoutManager{width: 80, height: 24}
	if got := l.historyHeight(); got != 24-headerHeight-chromeHeight {
		t.Errorf("historyHeight = %d", got)
	}
	if got := (LayoutManager{width: 10, height: 4}).historyHeight(); got != minHistoryHeight {
		t.Errorf("small terminals should keep the minimum height, got %d", got)
	}
	if got := l.historyWidth(); got != 78 {
		t.Errorf("historyWidth = %d", got)
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeaderModel("v2.0.0", []string{"digits", "std"})
	h.SetWidth(80)
	view := h.View()
	for _, want := range []string{"bigcalc v2.0.0", "digits, std", "Session:"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q: %q", want, view)
		}
	}
}

func TestModel_SysStats(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(SysStatsMsg{Stats: sysmon.Stats{CPUPercent: 33, MemPercent: 66}})
	m = next.(Model)
	if cmd == nil {
		t.Error("a sample should schedule the next one")
	}
	if view := m.View(); !strings.Contains(view, "CPU 33% · MEM 66%") {
		t.Errorf("header should show resource usage:\n%s", view)
	}
}
