package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "duration")
	IsFile    bool     // true if the flag takes a file path
	IsEngine  bool     // true if values come from the engine list
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "expr", Short: "e", Help: "Expression to evaluate", ValueName: "expression"},
	{Long: "file", Short: "f", Help: "File of expressions, one per line", IsFile: true, ValueName: "file"},
	{Long: "engine", Help: "Engine to use", IsEngine: true, ValueName: "engine"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "workers", Help: "Concurrent evaluations (0 = auto)", Values: []string{"0", "1", "2", "4", "8"}, ValueName: "count"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file"},
	{Long: "quiet", Short: "q", Help: "Print bare results only"},
	{Long: "verbose", Short: "v", Help: "Print full values and memory statistics"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "repl", Help: "Start the interactive prompt"},
	{Long: "tui", Help: "Start the full-screen calculator"},
	{Long: "metrics", Help: "Print Prometheus metrics after the run"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "disabled"}, ValueName: "level"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//   - engines: List of available engine names, plus "all".
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, engines []string) error {
	engines = append(append([]string(nil), engines...), "all")
	switch shell {
	case "bash":
		return generateBashCompletion(out, engines)
	case "zsh":
		return generateZshCompletion(out, engines)
	case "fish":
		return generateFishCompletion(out, engines)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// takesValue reports whether the flag expects an argument.
func takesValue(f FlagCompletion) bool {
	return f.ValueName != ""
}

func generateBashCompletion(out io.Writer, engines []string) error {
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	var cases strings.Builder
	for _, f := range flagRegistry {
		if !takesValue(f) {
			continue
		}
		patterns := "--" + f.Long
		if f.Short != "" {
			patterns += "|-" + f.Short
		}
		var body string
		switch {
		case f.IsEngine:
			body = `COMPREPLY=( $(compgen -W "${engines}" -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			body = "COMPREPLY=()"
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", patterns, body)
	}

	_, err := fmt.Fprintf(out, `# bash completion for bigcalc
# Add to ~/.bashrc: source <(bigcalc --completion bash)

_bigcalc_completions() {
    local cur prev opts engines
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"
    engines="%s"

    case "${prev}" in
%s    esac

    if [[ ${cur} == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _bigcalc_completions bigcalc
`, strings.Join(opts, " "), strings.Join(engines, " "), cases.String())
	return err
}

func generateZshCompletion(out io.Writer, engines []string) error {
	var args strings.Builder
	for _, f := range flagRegistry {
		fmt.Fprintf(&args, "        %s \\\n", zshArgEntry(f, engines))
	}

	_, err := fmt.Fprintf(out, `#compdef bigcalc
# zsh completion for bigcalc
# Add to ~/.zshrc: source <(bigcalc --completion zsh)

_bigcalc() {
    _arguments -s \
%s        && return 0
}

compdef _bigcalc bigcalc
`, args.String())
	return err
}

// zshArgEntry renders one _arguments spec, e.g.
// '(-o --output)'{-o,--output}'[Output file path]:file:_files'.
func zshArgEntry(f FlagCompletion, engines []string) string {
	var action string
	switch {
	case !takesValue(f):
	case f.IsEngine:
		action = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(engines, " "))
	case f.IsFile:
		action = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		action = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	default:
		action = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" && f.Long != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, f.Help, action)
}

func generateFishCompletion(out io.Writer, engines []string) error {
	var b strings.Builder
	b.WriteString("# fish completion for bigcalc\n")
	b.WriteString("# Save to ~/.config/fish/completions/bigcalc.fish\n\n")
	for _, f := range flagRegistry {
		b.WriteString(fishCompleteLine(f, strings.Join(engines, " ")))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func fishCompleteLine(f FlagCompletion, engineList string) string {
	var parts []string
	parts = append(parts, "complete -c bigcalc")
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
	switch {
	case f.IsEngine:
		parts = append(parts, fmt.Sprintf("-xa '%s'", engineList))
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case takesValue(f):
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
