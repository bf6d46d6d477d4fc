//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/progress"
	"github.com/agbru/bigcalc/internal/ui"
)

const (
	// TruncationLimit is the digit threshold from which a result is truncated
	// in standard output to avoid cluttering the terminal.
	TruncationLimit = 100
	// DisplayEdges specifies the number of digits to display at the beginning
	// and end of a truncated number.
	DisplayEdges = 25
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed, then prints the final state on its own
// line and calls wg.Done.
//
// Parameters:
//   - wg: The WaitGroup to signal on completion.
//   - progressChan: The channel of per-engine progress updates.
//   - numEngines: The number of engines reporting progress.
//   - out: The writer for the spinner and the final line.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numEngines int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numEngines)
	if agg == nil {
		progress.Drain(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(0, 0))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%s\n", progressSuffix(agg.CalculateAverage(), 0))
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg.CalculateAverage(), agg.GetETA()))
		}
	}
}

// progressSuffix renders " Evaluating  42.0% [████░░░░] ETA 3s".
func progressSuffix(avg float64, eta time.Duration) string {
	suffix := fmt.Sprintf(" Evaluating %5.1f%% [%s%s%s]", avg*100,
		ui.ColorGreen(), progressBar(avg, ProgressBarWidth), ui.ColorReset())
	if eta > 0 {
		suffix += " ETA " + format.FormatExecutionDuration(eta.Round(time.Millisecond))
	}
	return suffix
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0.0), 1.0)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayResult prints the value of one evaluated expression.
//
// Results longer than TruncationLimit digits are shortened unless verbose
// is set; verbose output also adds the digit-grouped form.
//
// Parameters:
//   - source: The expression text.
//   - value: The canonical decimal result.
//   - duration: The evaluation time.
//   - verbose: Whether to print the full value.
//   - out: The output writer.
func DisplayResult(source, value string, duration time.Duration, verbose bool, out io.Writer) {
	digits := len(strings.TrimPrefix(value, "-"))
	fmt.Fprintf(out, "\n%s%s%s =\n", ui.ColorBold(), source, ui.ColorReset())

	shown, truncated := value, false
	if !verbose {
		shown, truncated = format.TruncateDigits(value, TruncationLimit, DisplayEdges)
	}
	fmt.Fprintf(out, "  %s%s%s", ui.ColorGreen(), shown, ui.ColorReset())
	if truncated {
		fmt.Fprintf(out, " (truncated)")
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  Digits: %s%s%s   Time: %s%s%s\n",
		ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(digits)), ui.ColorReset(),
		ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())
	if verbose && digits > 3 {
		fmt.Fprintf(out, "  Grouped: %s\n", format.FormatNumberString(value))
	}
	if truncated {
		fmt.Fprintf(out, "  %sTip: use -v to print the full value or -o to save it.%s\n", ui.ColorGrey(), ui.ColorReset())
	}
}
