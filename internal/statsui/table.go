// Package statsui implements the interactive history browser.
package statsui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/stats"
)

// tableLayout remembers the last requested table dimensions.
type tableLayout struct {
	width int
	body  int
}

func newSessionTable() table.Model {
	t := table.New(
		table.WithColumns(sessionColumns()),
		table.WithHeight(1),
	)
	t.SetStyles(sessionTableStyles())
	return t
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Rounds", Width: 6},
		{Title: "Parries", Width: 7},
		{Title: "Rate", Width: 7},
		{Title: "Avg (ms)", Width: 8},
		{Title: "Window", Width: 6},
		{Title: "Key", Width: 5},
		{Title: "End", Width: 5},
	}
}

// buildSessionRows lists stored sessions newest first.
func buildSessionRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rate, avgMs := stats.SessionMetrics(s)
		avg := "n/a"
		if s.Successes > 0 {
			avg = fmt.Sprintf("%.0f", avgMs)
		}
		rows = append(rows, table.Row{
			s.EndedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%d", s.Successes),
			fmt.Sprintf("%.2f%%", rate*100),
			avg,
			fmt.Sprintf("%d", s.ParryWindowMs),
			s.ParryKey,
			s.EndReason,
		})
	}
	return rows
}

func (m *Model) setSessionTableSize(width, body int) {
	req := tableLayout{width: width, body: body}
	if m.sessionLayout == req {
		return
	}
	m.sessionLayout = req
	m.sessionTable.SetWidth(width)
	m.sessionTable.SetHeight(max(body-1, 1))
	m.fitSessionTableHeight(body)
}

// fitSessionTableHeight nudges the table height until the rendered view
// spans the body exactly, correcting for the chrome the bubbles table
// adds around its rows.
func (m *Model) fitSessionTableHeight(target int) {
	target = max(target, 1)
	for i := 0; i < 2; i++ {
		got := lipgloss.Height(m.sessionTable.View())
		if got == target {
			return
		}
		m.sessionTable.SetHeight(max(m.sessionTable.Height()+target-got, 1))
	}
}

func sessionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(borderColor).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(textColor).
		Bold(true)
	return styles
}
