// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultsToFile].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/orchestration"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the results (empty for no file output).
	// A ".json" extension selects JSON output.
	OutputFile string
	// Quiet prints bare values only.
	Quiet bool
	// Verbose prints full values.
	Verbose bool
}

// resultRecord is the JSON form of one expression in a results file.
type resultRecord struct {
	Line    int                `json:"line"`
	Expr    string             `json:"expr"`
	Value   *bigint.BigInteger `json:"value,omitempty"`
	Engines []string           `json:"engines"`
	Error   string             `json:"error,omitempty"`
	Nanos   int64              `json:"duration_ns"`
}

// WriteResultsToFile writes the batch results to config.OutputFile, as JSON
// when the file name ends in ".json" and as annotated text otherwise. An
// empty OutputFile writes nothing.
//
// Parameters:
//   - reports: The batch results.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultsToFile(reports []orchestration.ExpressionReport, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return writeResults(file, strings.EqualFold(filepath.Ext(config.OutputFile), ".json"), reports)
}

// writeResults writes reports to w and closes it. The close error is
// returned when writing succeeded, since buffered data may be lost there.
func writeResults(w io.WriteCloser, asJSON bool, reports []orchestration.ExpressionReport) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if asJSON {
		err = writeJSONResults(w, reports)
	} else {
		err = writeTextResults(w, reports)
	}
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func writeTextResults(w io.Writer, reports []orchestration.ExpressionReport) error {
	fmt.Fprintf(w, "# Big Integer Evaluation Results\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Expressions: %d\n\n", len(reports))
	for _, report := range reports {
		value, err := agreedValue(report)
		if err != nil {
			fmt.Fprintf(w, "%s = ERROR %v\n", report.Source, err)
			continue
		}
		if _, err := fmt.Fprintf(w, "%s =\n%s\n", report.Source, value); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONResults(w io.Writer, reports []orchestration.ExpressionReport) error {
	records := make([]resultRecord, 0, len(reports))
	for _, report := range reports {
		rec := resultRecord{Line: report.Line, Expr: report.Source, Nanos: int64(fastest(report))}
		for _, r := range report.Results {
			rec.Engines = append(rec.Engines, r.Engine)
		}
		value, err := agreedValue(report)
		if err != nil {
			rec.Error = err.Error()
		} else if rec.Value, err = bigint.Parse(value); err != nil {
			rec.Error = err.Error()
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// agreedValue returns the value every engine agreed on, or the first error.
func agreedValue(report orchestration.ExpressionReport) (string, error) {
	if len(report.Results) == 0 {
		return "", fmt.Errorf("no engine ran")
	}
	first := report.Results[0]
	for _, r := range report.Results {
		if r.Err != nil {
			return "", r.Err
		}
		if r.Value != first.Value {
			return "", fmt.Errorf("engines disagree: %s=%s, %s=%s", first.Engine, first.Value, r.Engine, r.Value)
		}
	}
	return first.Value, nil
}

// FormatQuietResult formats a result for quiet mode output: the bare
// canonical value, suitable for scripting.
func FormatQuietResult(value string) string {
	return value
}

// DisplayQuietResult outputs a result in quiet mode.
func DisplayQuietResult(out io.Writer, value string) {
	fmt.Fprintln(out, FormatQuietResult(value))
}
