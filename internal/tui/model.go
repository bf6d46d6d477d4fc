package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/sysmon"
)

// lastResultName is the operand that refers to the previous result.
const lastResultName = "ans"

// Layout constants for the calculator screen.
const (
	headerHeight     = 1
	chromeHeight     = 5 // history border (2) + status + input + help
	minHistoryHeight = 3
)

// sysStatsInterval is the refresh period of the header's resource usage.
const sysStatsInterval = 2 * time.Second

// EvaluationState holds the fields of the submission in flight.
type EvaluationState struct {
	seq      uint64
	busy     bool
	source   string
	progress float64
	eta      time.Duration
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// historyHeight returns the height available to the history viewport.
func (l LayoutManager) historyHeight() int {
	return max(l.height-headerHeight-chromeHeight, minHistoryHeight)
}

// historyWidth returns the inner width of the history panel.
func (l LayoutManager) historyWidth() int {
	return max(l.width-2, 0)
}

// Model is the root bubbletea model of the interactive calculator.
type Model struct {
	header  HeaderModel
	input   textinput.Model
	history viewport.Model
	help    help.Model
	keymap  KeyMap

	EvaluationState
	LayoutManager

	ctx     context.Context
	cancel  context.CancelFunc
	engines []calc.Engine
	timeout time.Duration
	ref     *programRef
	sampler *sysmon.Sampler

	entries   []entry
	recall    []string
	recallIdx int
	last      string
}

// NewModel creates a new calculator model evaluating on every engine in
// engines. Each submission is bounded by cfg.Timeout.
func NewModel(parentCtx context.Context, engines []calc.Engine, cfg config.AppConfig, version string) Model {
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.Name()
	}

	ti := textinput.New()
	ti.Prompt = "big> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "<a> <op> <b>   (op: + - * x, " + lastResultName + " = previous result)"
	ti.Focus()

	ctx, cancel := context.WithCancel(parentCtx)

	m := Model{
		header:  NewHeaderModel(version, names),
		input:   ti,
		history: viewport.New(0, minHistoryHeight),
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		ctx:     ctx,
		cancel:  cancel,
		engines: engines,
		timeout: cfg.Timeout,
		ref:     &programRef{},
		sampler: sysmon.NewSampler(sysStatsInterval),
		last:    "0",
	}
	m.history.SetContent(renderHistory(nil))
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, watchContextCmd(m.ctx), sampleSysStatsCmd(m.sampler))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case ProgressMsg:
		if msg.Seq == m.seq && m.busy {
			m.progress = msg.AverageProgress
			m.eta = msg.ETA
		}
		return m, nil

	case EvaluationCompleteMsg:
		if msg.Seq != m.seq || !m.busy {
			return m, nil // stale message from a previous submission
		}
		result := msg.Result
		result.Source = m.source
		if result.Err == nil && !result.mismatch() && result.Value != "" {
			m.last = result.Value
		}
		m.entries = append(m.entries, result)
		m.busy = false
		m.refreshHistory()
		return m, nil

	case SysStatsMsg:
		m.header.SetSysStats(msg.Stats)
		return m, tickSysStatsCmd(m.sampler)

	case ContextCancelledMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Submit):
		return m.submit()

	case key.Matches(msg, m.keymap.Clear):
		m.entries = nil
		m.refreshHistory()
		return m, nil

	case key.Matches(msg, m.keymap.HistoryPrev):
		if m.recallIdx > 0 {
			m.recallIdx--
			m.input.SetValue(m.recall[m.recallIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keymap.HistoryNext):
		if m.recallIdx < len(m.recall) {
			m.recallIdx++
		}
		if m.recallIdx == len(m.recall) {
			m.input.Reset()
		} else {
			m.input.SetValue(m.recall[m.recallIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts evaluating the input line. Blank lines, comments and
// submissions while another one is running are ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	source := strings.TrimSpace(m.input.Value())
	if source == "" || strings.HasPrefix(source, "#") || m.busy {
		return m, nil
	}

	m.recall = append(m.recall, source)
	m.recallIdx = len(m.recall)
	m.input.Reset()

	m.seq++
	m.busy = true
	m.source = source
	m.progress = 0
	m.eta = 0
	return m, evaluateCmd(m.ref, m.ctx, m.engines, m.resolve(source), m.timeout, m.seq)
}

// resolve substitutes the previous result for every "ans" operand.
func (m Model) resolve(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.EqualFold(f, lastResultName) {
			fields[i] = m.last
		}
	}
	return strings.Join(fields, " ")
}

func (m *Model) refreshHistory() {
	m.history.SetContent(renderHistory(m.entries))
	m.history.GotoBottom()
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.history.Width = m.historyWidth()
	m.history.Height = m.historyHeight()
	m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-1, 1)
	m.help.Width = m.width
	m.refreshHistory()
}

// View renders the calculator.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	history := panelStyle.Width(m.historyWidth()).Render(m.history.View())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		history,
		m.statusView(),
		m.input.View(),
		m.help.View(m.keymap),
	)
}

func (m Model) statusView() string {
	if !m.busy {
		return statusStyle.Render(fmt.Sprintf("%d evaluation(s)", len(m.entries)))
	}
	status := fmt.Sprintf("Evaluating %q %5.1f%%", m.source, m.progress*100)
	if m.eta > 0 {
		status += fmt.Sprintf("  ETA %s", m.eta.Round(time.Second))
	}
	return progressStyle.Padding(0, 1).Render(status)
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, engines []calc.Engine, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, engines, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// evaluateCmd returns a tea.Cmd that cross-checks line on every engine.
func evaluateCmd(ref *programRef, ctx context.Context, engines []calc.Engine, line string, timeout time.Duration, seq uint64) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		reporter := &TUIProgressReporter{ref: ref, seq: seq}
		presenter := &TUIResultPresenter{}

		items := orchestration.ParseBatch([]string{line})
		reports := orchestration.ExecuteBatch(ctx, engines, items, 0, reporter, io.Discard)
		code := orchestration.AnalyzeResults(reports, orchestration.PresentationOptions{}, presenter, io.Discard)

		result := presenter.outcome
		result.ExitCode = code
		if len(reports) == 1 && result.Results == nil {
			result.Results = reports[0].Results
		}
		return EvaluationCompleteMsg{Seq: seq, Result: result}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory usage.
func sampleSysStatsCmd(sampler *sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg{Stats: sampler.Stats()}
	}
}

// tickSysStatsCmd schedules the next resource sample.
func tickSysStatsCmd(sampler *sysmon.Sampler) tea.Cmd {
	return tea.Tick(sysStatsInterval, func(time.Time) tea.Msg {
		return SysStatsMsg{Stats: sampler.Stats()}
	})
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
