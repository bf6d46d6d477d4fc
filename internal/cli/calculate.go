package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	"github.com/agbru/bigcalc/internal/ui"
)

// PrintExecutionConfig displays the current execution configuration: the
// batch size, timeout, worker limit and environment details.
//
// Parameters:
//   - cfg: The application configuration.
//   - numExpressions: The number of expressions in the batch.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, numExpressions int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Evaluating %s%d%s expression(s) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), numExpressions, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s%d%s worker(s).\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		ui.ColorCyan(), cfg.Workers, ui.ColorReset())
}

// PrintExecutionMode displays whether a single engine runs or several are
// cross-checked.
//
// Parameters:
//   - engines: The engines that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(engines []calc.Engine, out io.Writer) {
	var modeDesc string
	switch len(engines) {
	case 0:
		modeDesc = "No engine selected"
	case 1:
		modeDesc = fmt.Sprintf("Single evaluation with the %s%s%s engine",
			ui.ColorGreen(), engines[0].Name(), ui.ColorReset())
	default:
		modeDesc = fmt.Sprintf("Cross-check of %d engines", len(engines))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
