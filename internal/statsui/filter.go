// Package statsui implements the interactive history browser.
package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bohdon/deadlock-parry/internal/model"
)

const (
	fieldSince = iota
	fieldLast
	fieldWindow
)

func newFilterInputs() []textinput.Model {
	return []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
}

func newFilterInput(prompt string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.CharLimit = 0
	in.Cursor.SetMode(cursor.CursorBlink)
	return in
}

// seedFilterInputs fills the form fields from the active config. Unset
// values show as empty fields rather than zeros.
func (m *Model) seedFilterInputs() {
	if len(m.filterInputs) == 0 {
		return
	}
	since := ""
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	m.filterInputs[fieldSince].SetValue(since)
	m.filterInputs[fieldLast].SetValue(positiveIntValue(m.cfg.Last))
	m.filterInputs[fieldWindow].SetValue(positiveIntValue(m.cfg.CurveWindow))
}

func positiveIntValue(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.seedFilterInputs()
	return m, m.focusField(fieldSince)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.resize()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		step := 1
		if msg.Type == tea.KeyShiftTab {
			step = -1
		}
		return m, m.focusField(m.filterIndex + step)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) focusField(idx int) tea.Cmd {
	n := len(m.filterInputs)
	if n == 0 {
		return nil
	}
	m.filterIndex = ((idx % n) + n) % n
	for i := range m.filterInputs {
		m.filterInputs[i].Blur()
	}
	return m.filterInputs[m.filterIndex].Focus()
}

func (m *Model) applyFilter() error {
	var cfg model.StatsConfig
	if raw := strings.TrimSpace(m.filterInputs[fieldSince].Value()); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if raw := strings.TrimSpace(m.filterInputs[fieldLast].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid last value (use 0 or a positive integer)")
		}
		cfg.Last = n
	}
	if raw := strings.TrimSpace(m.filterInputs[fieldWindow].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid curve window (use an integer >= 1)")
		}
		cfg.CurveWindow = n
	}
	m.cfg = cfg
	return nil
}
