// Package config parses command-line flags and environment variables into
// the application configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/logging"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "BIGCALC_"

const (
	// DefaultEngine is the engine used when --engine is not given.
	DefaultEngine = "digits"
	// AllEngines selects every registered engine and cross-checks them.
	AllEngines = "all"
	// DefaultTimeout bounds a whole batch run.
	DefaultTimeout = 1 * time.Minute
	// DefaultLogLevel keeps diagnostic logs quiet unless requested.
	DefaultLogLevel = "warn"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Expr is a single expression given with -e/--expr or as positional arguments.
	Expr string
	// InputFile is a file of expressions, one per line.
	InputFile string
	// Engine is the engine name, or "all" to cross-check every engine.
	Engine string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Workers limits concurrent evaluations. Zero selects an estimate.
	Workers int
	// OutputFile receives the results when non-empty.
	OutputFile string
	// Quiet prints bare results only.
	Quiet bool
	// Verbose prints full values and memory statistics.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
	// REPL starts the interactive prompt.
	REPL bool
	// TUI starts the full-screen interactive calculator.
	TUI bool
	// Metrics prints the Prometheus text exposition after the run.
	Metrics bool
	// LogLevel is the zerolog level name.
	LogLevel string
	// Completion names the shell to generate a completion script for.
	Completion string
}

// ParseConfig parses the command-line arguments, applies environment
// overrides for flags that were not set explicitly, and validates the result.
//
// Parameters:
//   - programName: The name shown in usage messages.
//   - args: The arguments without the program name.
//   - errorWriter: The writer for usage and parse errors.
//   - availableEngines: The registered engine names, used for validation.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableEngines []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.StringVar(&config.Expr, "expr", "", "Expression to evaluate, e.g. \"-12 * 34\".")
	fs.StringVar(&config.Expr, "e", "", "Expression to evaluate (shorthand).")
	fs.StringVar(&config.InputFile, "file", "", "File of expressions, one per line.")
	fs.StringVar(&config.InputFile, "f", "", "File of expressions (shorthand).")
	fs.StringVar(&config.Engine, "engine", DefaultEngine, fmt.Sprintf("Engine to use: %s or %q.", strings.Join(availableEngines, ", "), AllEngines))
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 10s, 1m).")
	fs.IntVar(&config.Workers, "workers", 0, "Concurrent evaluations (0 = based on CPU count).")
	fs.StringVar(&config.OutputFile, "output", "", "Write results to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Write results to this file (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print bare results only.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print full values and memory statistics.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.REPL, "repl", false, "Start the interactive prompt.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the full-screen interactive calculator.")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print Prometheus metrics after the run.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error, disabled.")
	fs.StringVar(&config.Completion, "completion", "", "Generate a completion script (bash, zsh, fish).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if config.Expr == "" && fs.NArg() > 0 {
		config.Expr = strings.Join(fs.Args(), " ")
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(availableEngines); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableEngines []string) error {
	if c.Completion != "" {
		return nil
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be zero or positive, got %d", c.Workers)
	}
	if c.Engine != AllEngines && !slices.Contains(availableEngines, c.Engine) {
		return apperrors.NewConfigError("unknown engine %q (available: %s, %s)", c.Engine, strings.Join(availableEngines, ", "), AllEngines)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.REPL && c.TUI {
		return apperrors.NewConfigError("--repl and --tui are mutually exclusive")
	}
	if c.Expr != "" && c.InputFile != "" {
		return apperrors.NewConfigError("--expr and --file are mutually exclusive")
	}
	if c.Expr == "" && c.InputFile == "" && !c.REPL && !c.TUI {
		return apperrors.NewConfigError("nothing to evaluate: use --expr, --file, --repl or --tui")
	}
	return nil
}
