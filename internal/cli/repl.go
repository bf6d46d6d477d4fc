// Package cli provides the command-line presentation layer: progress
// display, result presentation, results files, shell completion and the
// interactive REPL.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/sysmon"
	"github.com/agbru/bigcalc/internal/ui"
)

// lastResultName is the operand that refers to the previous result.
const lastResultName = "ans"

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultEngine is the engine used for evaluations.
	DefaultEngine string
	// Timeout is the maximum duration for each evaluation.
	Timeout time.Duration
}

// REPL is an interactive calculator session.
type REPL struct {
	config        REPLConfig
	registry      map[string]calc.Engine
	metrics       *metrics.Metrics
	currentEngine string
	last          string
	in            io.Reader
	out           io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - registry: Map of available engines by name.
//   - m: The metrics shown by the "metrics" command; may be nil.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(registry map[string]calc.Engine, m *metrics.Metrics, config REPLConfig) *REPL {
	r := &REPL{
		config:   config,
		registry: registry,
		metrics:  m,
		last:     "0",
		in:       os.Stdin,
		out:      os.Stdout,
	}
	r.currentEngine = config.DefaultEngine
	if _, ok := registry[r.currentEngine]; !ok {
		if names := r.engineNames(); len(names) > 0 {
			r.currentEngine = names[0]
		}
	}
	return r
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start runs the session until "exit" or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"big> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s🔢 Big Integer Calculator - Interactive Mode%s          %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<a> <op> <b>%s      - Evaluate with op one of + - * x\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sadd|sub|mul <a> <b>%s - Same as above, as a command\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %snorm <a>%s          - Print the canonical form of a\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sengine <name>%s     - Change engine (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(r.engineNames(), ", "))
	fmt.Fprintf(r.out, "  %scompare <expr>%s    - Evaluate on every engine and cross-check\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s              - List available engines\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smetrics%s           - Print Prometheus metrics\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s            - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s              - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s       - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "Use %s%s%s as an operand to refer to the previous result.\n", ui.ColorYellow(), lastResultName, ui.ColorReset())
}

func (r *REPL) engineNames() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// processCommand executes one line. It returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "add", "sub", "mul":
		if len(args) != 2 {
			fmt.Fprintf(r.out, "%sUsage: %s <a> <b>%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			return true
		}
		e, err := expr.New(cmd, args[0], args[1])
		if err != nil {
			r.printError(err)
			return true
		}
		r.evaluate(e)
	case "norm":
		if len(args) != 1 {
			fmt.Fprintf(r.out, "%sUsage: norm <a>%s\n", ui.ColorRed(), ui.ColorReset())
			return true
		}
		r.evaluate(expr.Expression{Op: expr.OpNormalize, Left: args[0]})
	case "engine", "e":
		r.cmdEngine(args)
	case "compare", "cmp":
		r.cmdCompare(strings.Join(args, " "))
	case "list", "ls":
		r.cmdList()
	case "metrics":
		r.cmdMetrics()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		e, err := expr.Parse(input)
		if err != nil {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
			return true
		}
		r.evaluate(e)
	}
	return true
}

// resolve substitutes the previous result for the "ans" operand.
func (r *REPL) resolve(e expr.Expression) expr.Expression {
	if strings.EqualFold(e.Left, lastResultName) {
		e.Left = r.last
	}
	if strings.EqualFold(e.Right, lastResultName) {
		e.Right = r.last
	}
	return e
}

// evaluate runs e on the current engine and prints the result.
func (r *REPL) evaluate(e expr.Expression) {
	engine, ok := r.registry[r.currentEngine]
	if !ok {
		fmt.Fprintf(r.out, "%sEngine not found: %s%s\n", ui.ColorRed(), r.currentEngine, ui.ColorReset())
		return
	}
	e = r.resolve(e)

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	start := time.Now()
	value, err := engine.Evaluate(ctx, e)
	duration := time.Since(start)
	if err != nil {
		r.printError(err)
		return
	}
	r.last = value

	shown, truncated := format.TruncateDigits(value, TruncationLimit, DisplayEdges)
	fmt.Fprintf(r.out, "  = %s%s%s", ui.ColorGreen(), shown, ui.ColorReset())
	if truncated {
		fmt.Fprint(r.out, " (truncated)")
	}
	fmt.Fprintf(r.out, "\n  %s%d digit(s) in %s%s\n",
		ui.ColorGrey(), len(strings.TrimPrefix(value, "-")), format.FormatExecutionDuration(duration), ui.ColorReset())
}

func (r *REPL) printError(err error) {
	fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
}

func (r *REPL) cmdEngine(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: engine <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available engines: %s\n", strings.Join(r.engineNames(), ", "))
		return
	}

	name := strings.ToLower(args[0])
	if _, ok := r.registry[name]; !ok {
		fmt.Fprintf(r.out, "%sUnknown engine: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available engines: %s\n", strings.Join(r.engineNames(), ", "))
		return
	}

	r.currentEngine = name
	fmt.Fprintf(r.out, "Engine changed to: %s%s%s\n", ui.ColorGreen(), name, ui.ColorReset())
}

// cmdCompare evaluates line on every engine in name order and flags any
// result that differs from the first successful one.
func (r *REPL) cmdCompare(line string) {
	e, err := expr.Parse(line)
	if err != nil {
		fmt.Fprintf(r.out, "%sUsage: compare <a> <op> <b>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	e = r.resolve(e)

	fmt.Fprintf(r.out, "\n%sComparison for %s:%s\n", ui.ColorBold(), e, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	var firstResult string
	for _, name := range r.engineNames() {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		start := time.Now()
		value, err := r.registry[name].Evaluate(ctx, e)
		duration := time.Since(start)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-10s%s: %sError - %v%s\n",
				ui.ColorYellow(), name, ui.ColorReset(), ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		if firstResult == "" {
			firstResult = value
		}

		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if value != firstResult {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}
		shown, _ := format.TruncateDigits(value, 30, 10)
		fmt.Fprintf(r.out, "  %s%-10s%s: %s%10s%s %s %s\n",
			ui.ColorYellow(), name, ui.ColorReset(),
			ui.ColorCyan(), format.FormatExecutionDuration(duration), ui.ColorReset(),
			shown, status)
	}
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable engines:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.engineNames() {
		marker := "  "
		if name == r.currentEngine {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%s%s\n", marker, ui.ColorYellow(), name, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdMetrics() {
	if r.metrics == nil {
		fmt.Fprintf(r.out, "%sMetrics are not enabled.%s\n", ui.ColorYellow(), ui.ColorReset())
		return
	}
	if err := r.metrics.WriteText(r.out); err != nil {
		r.printError(err)
	}
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Engine:         %s%s%s\n", ui.ColorCyan(), r.currentEngine, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	shown, _ := format.TruncateDigits(r.last, 30, 10)
	fmt.Fprintf(r.out, "  Last result:    %s%s%s\n", ui.ColorCyan(), shown, ui.ColorReset())
	if r.metrics != nil {
		if s, err := r.metrics.Summarize(); err == nil {
			fmt.Fprintf(r.out, "  Metrics:        %s%s%s\n", ui.ColorCyan(), s, ui.ColorReset())
		}
	}
	fmt.Fprintf(r.out, "  System:         %s%s%s\n", ui.ColorCyan(), sysmon.Sample(), ui.ColorReset())
	fmt.Fprintln(r.out)
}
