package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/cli"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

// runBatch evaluates the expression given on the command line, or every
// line of the input file, on the selected engines.
func (a *Application) runBatch(ctx context.Context, engines []calc.Engine, m *metrics.Metrics, out io.Writer) int {
	items, err := a.loadBatch()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	if len(items) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no expression to evaluate\n")
		return apperrors.ExitErrorConfig
	}

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	// Skip verbose output in quiet mode
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, len(items), out)
		cli.PrintExecutionMode(engines, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()

	reports := orchestration.ExecuteBatch(ctx, engines, items, a.Config.Workers, progressReporter, progressOut)

	presOpts := orchestration.PresentationOptions{
		Verbose: a.Config.Verbose,
		Quiet:   a.Config.Quiet,
	}
	exitCode := orchestration.AnalyzeResults(reports, presOpts, cli.CLIResultPresenter{}, out)

	if a.Config.Verbose && !a.Config.Quiet {
		cli.DisplayMemoryStats(before, collector.Snapshot(), out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
	if err := cli.WriteResultsToFile(reports, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		if exitCode == apperrors.ExitSuccess {
			exitCode = apperrors.ExitErrorGeneric
		}
	} else if outputCfg.OutputFile != "" && !outputCfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Results saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	}

	if a.Config.Metrics {
		fmt.Fprintln(out)
		if err := m.WriteText(out); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
		}
	}

	return exitCode
}

// loadBatch returns the items to evaluate: the lines of the input file, or
// the single command-line expression.
func (a *Application) loadBatch() ([]orchestration.BatchItem, error) {
	if a.Config.InputFile == "" {
		return orchestration.ParseBatch([]string{a.Config.Expr}), nil
	}

	f, err := os.Open(a.Config.InputFile)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to open input file")
	}
	defer f.Close()
	return orchestration.ReadBatch(f)
}
