// Package statsui implements the interactive history browser.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/stats"
)

var (
	accentColor = lipgloss.Color("#C89A3A")
	borderColor = lipgloss.Color("#4A4A4A")
	textColor   = lipgloss.Color("#F0F0F0")
	helpColor   = lipgloss.Color("#6E6E6E")
	errColor    = lipgloss.Color("#FF4D4F")
)

var activeNavStyle = lipgloss.NewStyle().
	Foreground(textColor).
	Bold(true).
	Padding(0, 1).
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(accentColor)

var inactiveNavStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#B0B0B0")).
	Padding(0, 1).
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(borderColor)

var cardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(borderColor)

var (
	headerStyle     = lipgloss.NewStyle().Foreground(helpColor)
	errorStyle      = lipgloss.NewStyle().Foreground(errColor)
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(textColor).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

func (m *Model) renderHeader() string {
	nav := padBlock(m.renderNav(), m.width)
	settings := padBlock(m.renderSettingsLine(), m.width)
	return nav + "\n" + settings
}

func (m *Model) renderNav() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts[i] = style.Render(tab)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSettingsLine() string {
	since, last := "any", "all"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	line := fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.cfg.CurveWindow)
	return headerStyle.Render(clipLine(line, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: q")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Refresh: r  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	var b strings.Builder
	b.WriteString("Settings (enter to apply, esc to cancel)")
	for _, input := range m.filterInputs {
		b.WriteByte('\n')
		b.WriteString(input.View())
	}
	if m.filterError != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render(m.filterError))
	}
	return b.String()
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return frame(m.renderFilterForm(), m.width, height)
	}
	var view string
	switch {
	case m.activeTab == tabSessions && len(m.report.Sessions) == 0:
		view = "No sessions found."
	case m.activeTab == tabSessions:
		view = tableMutedStyle.Render(m.sessionTable.View())
	default:
		view = m.viewports[m.activeTab].View()
	}
	return frame(view, m.width, height)
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	cards := renderSummaryCards(report, width)
	curves := renderCurves(report.Sessions, window, width)
	return strings.TrimRight(cards+"\n\n"+curves, "\n")
}

func renderSummaryCards(report stats.Report, width int) string {
	var totals model.SessionStats
	bestRate := 0.0
	for _, s := range report.Sessions {
		totals.Attempts += s.Attempts
		totals.Successes += s.Successes
		totals.LatencySumMs += s.LatencySumMs
		if rate, _ := stats.SessionMetrics(s); rate > bestRate {
			bestRate = rate
		}
	}
	avg := "n/a"
	if ms, ok := stats.AverageLatencyMs(totals); ok {
		avg = fmt.Sprintf("%dms", ms)
	}
	streak := stats.LongestStreak(stats.AggregateSuccessFlags(report.RoundsAll))
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(report.Sessions))),
		metricCard("Rounds", fmt.Sprintf("%d", totals.Attempts)),
		metricCard("Parries", fmt.Sprintf("%d", totals.Successes)),
		metricCard("Parry Rate", fmt.Sprintf("%.2f%%", stats.SuccessRate(totals)*100)),
		metricCard("Avg Response", avg),
		metricCard("Best Session", fmt.Sprintf("%.2f%%", bestRate*100)),
		metricCard("Best Streak", fmt.Sprintf("%d", streak)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderCurves(sessions []model.SessionAggregate, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderResponses(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	covered := len(report.Sessions)
	if window > 0 && window < covered {
		covered = window
	}
	header := headerStyle.Render(fmt.Sprintf("Last %d sessions, %d rounds", covered, len(report.RoundsWindow)))
	var buf bytes.Buffer
	if err := stats.RenderResponseCurveWithSize(&buf, report.RoundsWindow, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render response curve: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

// frame pads every line to width, then clips or pads the block to
// exactly height lines.
func frame(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	var b strings.Builder
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < len(lines) {
			b.WriteString(padToWidth(lines[i], width))
		} else {
			b.WriteString(strings.Repeat(" ", width))
		}
	}
	return b.String()
}

func padBlock(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = padToWidth(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func padToWidth(line string, width int) string {
	if gap := width - lipgloss.Width(line); gap > 0 {
		return line + strings.Repeat(" ", gap)
	}
	return line
}

func clipLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}
