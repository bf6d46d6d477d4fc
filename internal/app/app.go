// Package app wires configuration, engines and presentation together and
// selects the run mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/cli"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/tui"
	"github.com/agbru/bigcalc/internal/ui"
)

// Application represents the bigcalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   calc.EngineFactory
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom EngineFactory for the application.
func WithFactory(f calc.EngineFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = calc.GlobalFactory()
	}

	programName := "bigcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	app.Config = config.ResolveWorkers(cfg)
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	// Only a real file can be a terminal.
	outFile, isFile := out.(*os.File)
	ui.InitTheme(a.Config.NoColor || !isFile, outFile)

	m := metrics.New()
	logger := logging.NewLogger(a.ErrWriter, "bigcalc")
	engines := calc.Wrap(orchestration.GetEnginesToRun(a.Config.Engine, a.Factory), m, logger)
	if len(engines) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no engine matches %q\n", a.Config.Engine)
		return apperrors.ExitErrorConfig
	}

	switch {
	case a.Config.REPL:
		return a.runREPL(m, logger)
	case a.Config.TUI:
		return a.runTUI(ctx, engines)
	}
	return a.runBatch(ctx, engines, m, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive prompt with every registered engine
// available for switching.
func (a *Application) runREPL(m *metrics.Metrics, logger logging.Logger) int {
	registry := make(map[string]calc.Engine)
	for name, e := range a.Factory.GetAll() {
		registry[name] = calc.NewEvaluator(e, m, logger)
	}

	defaultEngine := a.Config.Engine
	if defaultEngine == config.AllEngines {
		defaultEngine = config.DefaultEngine
	}
	repl := cli.NewREPL(registry, m, cli.REPLConfig{
		DefaultEngine: defaultEngine,
		Timeout:       a.Config.Timeout,
	})
	repl.Start()
	return apperrors.ExitSuccess
}

// runTUI launches the interactive calculator.
func (a *Application) runTUI(ctx context.Context, engines []calc.Engine) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, engines, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
