package orchestration

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/progress"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. A larger buffer means fewer dropped updates when the
// UI is slow to consume them.
const ProgressBufferMultiplier = 5

// maxLineBytes bounds a single batch line. Operands can run to millions of
// digits, so bufio's 64 KiB default is far too small.
const maxLineBytes = 64 << 20

// BatchItem is one expression of a batch.
type BatchItem struct {
	// Line is the 1-based line number in the source.
	Line int
	// Source is the trimmed expression text.
	Source string
	// Expr is the parsed expression. It is only valid when Err is nil.
	Expr expr.Expression
	// Err is the parse error, if any. Such items are reported as failed on
	// every engine without being evaluated.
	Err error
}

// ParseBatch converts lines into batch items. Blank lines and lines
// starting with '#' are skipped but still counted for line numbers.
func ParseBatch(lines []string) []BatchItem {
	items := make([]BatchItem, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := expr.Parse(line)
		items = append(items, BatchItem{Line: i + 1, Source: line, Expr: e, Err: err})
	}
	return items
}

// ReadBatch reads and parses one expression per line from r.
func ReadBatch(r io.Reader) ([]BatchItem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.WrapError(err, "reading expressions")
	}
	return ParseBatch(lines), nil
}

// ExecuteBatch evaluates every item on every engine concurrently.
//
// At most workers evaluations run at once (workers <= 0 means no limit).
// Progress is reported per engine as the fraction of items it has
// finished. Failures never stop the batch; a canceled ctx makes the
// remaining evaluations fail fast with the context error.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - engines: The engines to run, in display order.
//   - items: The batch to evaluate.
//   - workers: The maximum number of concurrent evaluations.
//   - progressReporter: The progress display (NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []ExpressionReport: One report per item, in batch order.
func ExecuteBatch(ctx context.Context, engines []calc.Engine, items []BatchItem, workers int, progressReporter ProgressReporter, out io.Writer) []ExpressionReport {
	reports := make([]ExpressionReport, len(items))
	for i, item := range items {
		reports[i] = ExpressionReport{Line: item.Line, Source: item.Source, Results: make([]EngineResult, len(engines))}
	}

	progressChan := make(chan progress.ProgressUpdate, max(len(engines), 1)*ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(engines), out)

	done := make([]atomic.Int64, len(engines))
	callbacks := make([]progress.ProgressCallback, len(engines))
	for j := range engines {
		callbacks[j] = progress.ChannelCallback(progressChan, j)
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, item := range items {
		for j, engine := range engines {
			g.Go(func() error {
				reports[i].Results[j] = evaluate(gctx, engine, item)
				n := done[j].Add(1)
				callbacks[j](float64(n) / float64(len(items)))
				return nil
			})
		}
	}

	// Every goroutine returns nil; failures are kept in the reports.
	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return reports
}

func evaluate(ctx context.Context, engine calc.Engine, item BatchItem) EngineResult {
	res := EngineResult{Engine: engine.Name()}
	if item.Err != nil {
		res.Err = apperrors.EvaluationError{Expr: item.Source, Cause: item.Err}
		return res
	}
	start := time.Now()
	value, err := engine.Evaluate(ctx, item.Expr)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = apperrors.EvaluationError{Expr: item.Source, Cause: err}
		return res
	}
	res.Value = value
	return res
}

// AnalyzeResults cross-checks the engines for every expression, presents
// the outcome, and returns the exit code of the batch.
//
// An expression succeeds when every engine returned the same value. When
// all engines failed, the first error is handed to the presenter. Any
// disagreement between engines, including one engine failing while
// another succeeds, is reported as a mismatch; a mismatch outranks every
// other failure in the returned code.
//
// Parameters:
//   - reports: The batch results to analyze.
//   - opts: Presentation options.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the report.
//
// Returns:
//   - int: ExitSuccess or the exit code of the most significant failure.
func AnalyzeResults(reports []ExpressionReport, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	exitCode := apperrors.ExitSuccess
	failed, mismatched := 0, 0

	for _, report := range reports {
		value, code := analyzeReport(report, opts, presenter, out)
		switch code {
		case apperrors.ExitSuccess:
			presenter.PresentResult(report, value, opts, out)
			continue
		case apperrors.ExitErrorMismatch:
			mismatched++
		default:
			failed++
		}
		if exitCode == apperrors.ExitSuccess || code == apperrors.ExitErrorMismatch {
			exitCode = code
		}
	}

	if !opts.Quiet && len(reports) > 1 {
		switch {
		case mismatched > 0:
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %d of %d expressions produced inconsistent results.\n", mismatched, len(reports))
		case failed > 0:
			fmt.Fprintf(out, "\nGlobal Status: Failure. %d of %d expressions could not be evaluated.\n", failed, len(reports))
		default:
			fmt.Fprintf(out, "\nGlobal Status: Success. %d expressions evaluated consistently.\n", len(reports))
		}
	}
	return exitCode
}

// analyzeReport returns the agreed value of one expression, or the exit
// code describing why there is none.
func analyzeReport(report ExpressionReport, opts PresentationOptions, presenter ResultPresenter, out io.Writer) (string, int) {
	if !opts.Quiet && len(report.Results) > 1 {
		presenter.PresentComparisonTable(report, out)
	}

	var firstValue *string
	var firstError error
	var elapsed time.Duration
	successes := 0
	for i := range report.Results {
		r := &report.Results[i]
		elapsed = max(elapsed, r.Duration)
		if r.Err != nil {
			if firstError == nil {
				firstError = r.Err
			}
			continue
		}
		successes++
		if firstValue == nil {
			firstValue = &r.Value
		}
	}

	if successes == 0 {
		if firstError == nil {
			return "", apperrors.ExitErrorGeneric
		}
		return "", presenter.HandleError(firstError, elapsed, out)
	}
	if firstError != nil && apperrors.IsContextError(firstError) {
		return "", presenter.HandleError(firstError, elapsed, out)
	}

	consistent := successes == len(report.Results)
	for _, r := range report.Results {
		if r.Err == nil && r.Value != *firstValue {
			consistent = false
		}
	}
	if !consistent {
		fmt.Fprintf(out, "Line %d: CRITICAL ERROR! Engines disagree on %q.\n", report.Line, report.Source)
		return "", apperrors.ExitErrorMismatch
	}
	return *firstValue, apperrors.ExitSuccess
}
