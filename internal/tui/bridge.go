package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/progress"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
	seq uint64
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the TUI.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numEngines int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numEngines)
	if agg == nil {
		progress.Drain(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Seq:             t.seq,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
}

// TUIResultPresenter implements orchestration.ResultPresenter.
// It records the outcome of a single expression for the TUI instead of
// writing to stdout.
type TUIResultPresenter struct {
	outcome entry
}

// Verify interface compliance.
var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

// PresentComparisonTable records the per-engine results.
func (t *TUIResultPresenter) PresentComparisonTable(report orchestration.ExpressionReport, _ io.Writer) {
	t.outcome.Results = append([]orchestration.EngineResult(nil), report.Results...)
}

// PresentResult records the agreed value.
func (t *TUIResultPresenter) PresentResult(report orchestration.ExpressionReport, value string, _ orchestration.PresentationOptions, _ io.Writer) {
	t.outcome.Value = value
	t.outcome.Duration = slowest(report)
}

// HandleError records err and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.outcome.Err = err
	t.outcome.Duration = duration
	return apperrors.ExitCodeFor(err)
}

// slowest returns the wall time of a report, which is that of its slowest
// engine.
func slowest(report orchestration.ExpressionReport) time.Duration {
	var d time.Duration
	for _, r := range report.Results {
		d = max(d, r.Duration)
	}
	return d
}
