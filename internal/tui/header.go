package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/sysmon"
)

// HeaderModel renders the top bar: title, version, engines and session time.
type HeaderModel struct {
	startTime time.Time
	version   string
	engines   []string
	sys       *sysmon.Stats
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, engines []string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		engines:   engines,
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// SetSysStats updates the system resource snapshot.
func (h *HeaderModel) SetSysStats(s sysmon.Stats) {
	h.sys = &s
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "bigcalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)

	pipe := versionStyle.Render(" | ")

	engines := engineStyle.Render("Engines: " + strings.Join(h.engines, ", "))
	rightText := fmt.Sprintf("Session: %s", time.Since(h.startTime).Truncate(time.Second))
	if h.sys != nil {
		rightText = h.sys.String() + " | " + rightText
	}
	session := versionStyle.Render(rightText)

	leftPart := title + pipe + engines
	leftLen := lipgloss.Width(leftPart)

	innerWidth := h.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}

	gap := innerWidth - leftLen - lipgloss.Width(session)
	if gap < 1 {
		return headerStyle.Width(h.width).Render(leftPart)
	}
	return headerStyle.Width(h.width).Render(leftPart + spaces(gap) + session)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
