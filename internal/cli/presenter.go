package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/progress"
	"github.com/agbru/bigcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for a running batch.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numEngines int, out io.Writer) {
	DisplayProgress(wg, progressChan, numEngines, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter with
// colorized terminal output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable displays the per-engine results of one expression.
// Padding is computed by hand because the cells contain ANSI codes.
func (CLIResultPresenter) PresentComparisonTable(report orchestration.ExpressionReport, out io.Writer) {
	fmt.Fprintf(out, "\n--- Line %d: %s ---\n", report.Line, report.Source)

	maxNameLen := 6     // "Engine" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range report.Results {
		maxNameLen = max(maxNameLen, len(res.Engine))
		maxDurationLen = max(maxDurationLen, len(format.FormatExecutionDuration(res.Duration)))
	}

	fmt.Fprintf(out, "%sEngine%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-6),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range report.Results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			shown, _ := format.TruncateDigits(res.Value, 20, 8)
			status = fmt.Sprintf("%s✅ %s%s", ui.ColorGreen(), shown, ui.ColorReset())
		}
		duration := format.FormatExecutionDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Engine, ui.ColorReset(), padRight("", maxNameLen-len(res.Engine)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the agreed value of one expression. Quiet mode
// prints the bare value only.
func (CLIResultPresenter) PresentResult(report orchestration.ExpressionReport, value string, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, value)
		return
	}
	DisplayResult(report.Source, value, fastest(report), opts.Verbose, out)
}

// HandleError prints err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleEvaluationError(err, duration, out, CLIColorProvider{})
}

// fastest returns the shortest successful duration of a report.
func fastest(report orchestration.ExpressionReport) time.Duration {
	var best time.Duration
	for _, r := range report.Results {
		if r.Err == nil && (best == 0 || r.Duration < best) {
			best = r.Duration
		}
	}
	return best
}

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

// Red returns the error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the reset sequence.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// DisplayMemoryStats shows how much the heap grew during a run.
func DisplayMemoryStats(before, after metrics.MemorySnapshot, out io.Writer) {
	growth, gcCycles := before.Delta(after)
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(after.HeapAlloc))
	fmt.Fprintf(out, "  Heap growth:     %s\n", format.FormatBytes(growth))
	fmt.Fprintf(out, "  Heap objects:    %d\n", after.HeapObjects)
	fmt.Fprintf(out, "  GC cycles:       %d\n", gcCycles)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(after.PauseTotalNs)/1e6)
}
