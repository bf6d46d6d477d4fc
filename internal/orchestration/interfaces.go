package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/bigcalc/internal/progress"
)

// EngineResult is the outcome of one expression on one engine.
type EngineResult struct {
	// Engine is the name of the engine that produced the result.
	Engine string
	// Value is the canonical decimal result. It is empty if an error occurred.
	Value string
	// Duration is the time taken by the evaluation.
	Duration time.Duration
	// Err contains any error that occurred during the evaluation.
	Err error
}

// ExpressionReport gathers the results of every engine for one line of a
// batch, in engine order.
type ExpressionReport struct {
	// Line is the 1-based position of the expression in its batch.
	Line int
	// Source is the expression text as given.
	Source string
	// Results holds one entry per engine.
	Results []EngineResult
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Quiet   bool
}

// ProgressReporter displays batch progress. This keeps the orchestration
// layer independent of spinners and terminals.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving per-engine progress updates.
	//   - numEngines: The number of engines being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numEngines int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numEngines int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numEngines int, out io.Writer) {
	f(wg, progressChan, numEngines, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	progress.Drain(progressChan)
}

// ResultPresenter presents batch results. Implementations decide the
// format (colored CLI table, plain text, and so on).
type ResultPresenter interface {
	// PresentComparisonTable displays the per-engine results of one expression.
	PresentComparisonTable(report ExpressionReport, out io.Writer)

	// PresentResult displays the agreed value of one expression.
	PresentResult(report ExpressionReport, value string, opts PresentationOptions, out io.Writer)

	// HandleError displays an error and returns the matching exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
