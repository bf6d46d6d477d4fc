package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/ui"
)

// Style variables for the calculator.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle    lipgloss.Style
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	versionStyle  lipgloss.Style
	engineStyle   lipgloss.Style
	promptStyle   lipgloss.Style
	sourceStyle   lipgloss.Style
	valueStyle    lipgloss.Style
	errorStyle    lipgloss.Style
	dimStyle      lipgloss.Style
	statusStyle   lipgloss.Style
	progressStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	engineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	promptStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	sourceStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	valueStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Padding(0, 1)

	progressStyle = lipgloss.NewStyle().
		Foreground(t.Accent)
}
