package tui

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/orchestration"
)

// Values longer than this many digits are shown with their edges only.
const (
	valueDisplayLimit = 100
	valueDisplayEdges = 25
)

// entry is one evaluated line of the history.
type entry struct {
	Source   string
	Value    string
	Err      error
	Results  []orchestration.EngineResult
	Duration time.Duration
	ExitCode int
}

// mismatch reports whether the engines disagreed on the expression.
func (e entry) mismatch() bool {
	return e.ExitCode == apperrors.ExitErrorMismatch
}

// render draws the entry as a block of lines.
func (e entry) render() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render("› "))
	b.WriteString(sourceStyle.Render(e.Source))
	b.WriteByte('\n')

	switch {
	case e.mismatch():
		b.WriteString("  " + errorStyle.Render("✗ engines disagree"))
		b.WriteByte('\n')
		for _, r := range e.Results {
			b.WriteString("    " + engineResultLine(r))
			b.WriteByte('\n')
		}
		return b.String()
	case e.Err != nil:
		b.WriteString("  " + errorStyle.Render("✗ "+e.Err.Error()))
		b.WriteByte('\n')
		return b.String()
	}

	shown, truncated := format.TruncateDigits(e.Value, valueDisplayLimit, valueDisplayEdges)
	b.WriteString("  = " + valueStyle.Render(shown))
	b.WriteByte('\n')

	digits := len(strings.TrimPrefix(e.Value, "-"))
	meta := fmt.Sprintf("  %d digit(s) in %s", digits, format.FormatExecutionDuration(e.Duration))
	if truncated {
		meta += " (truncated)"
	}
	if len(e.Results) > 1 {
		parts := make([]string, len(e.Results))
		for i, r := range e.Results {
			parts[i] = r.Engine + " " + format.FormatExecutionDuration(r.Duration)
		}
		meta += " · " + strings.Join(parts, " · ")
	}
	b.WriteString(dimStyle.Render(meta))
	b.WriteByte('\n')
	return b.String()
}

func engineResultLine(r orchestration.EngineResult) string {
	name := engineStyle.Render(fmt.Sprintf("%-8s", r.Engine))
	if r.Err != nil {
		return name + " " + errorStyle.Render(r.Err.Error())
	}
	shown, _ := format.TruncateDigits(r.Value, 40, 15)
	return name + " " + shown
}

// renderHistory draws all entries, oldest first.
func renderHistory(entries []entry) string {
	if len(entries) == 0 {
		return dimStyle.Render("Type an expression such as 12345678901234567890 * -987654321 and press enter.")
	}
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = e.render()
	}
	return strings.TrimRight(strings.Join(blocks, "\n"), "\n")
}
