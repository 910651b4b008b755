// Package statsui implements the interactive history browser.
package statsui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/stats"
	"github.com/bohdon/deadlock-parry/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabResponses
)

const plotHeight = 10

// Model drives the stats browser.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model

	sessionTable  table.Model
	sessionLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel builds the browser over a store and initial filters.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Sessions", "Responses"},
	}
	m.filterInputs = newFilterInputs()
	m.seedFilterInputs()
	m.sessionTable = newSessionTable()
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerH, bodyH, footerH := m.frameHeights()
	header := frame(m.renderHeader(), m.width, headerH)
	body := frame(m.renderBody(bodyH), m.width, bodyH)
	footer := frame(m.renderFooter(), m.width, footerH)
	return header + "\n" + body + "\n" + footer
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.cycleTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.cycleTab(1)
		return m, tea.ClearScreen
	case "=", "+":
		return m.stepWindow(1)
	case "-", "_":
		return m.stepWindow(-1)
	case "r":
		m.refreshReport()
		return m, nil
	case "/":
		return m.startFilter()
	case "g", "home":
		m.scrollEdge(true)
		return m, nil
	case "G", "end":
		m.scrollEdge(false)
		return m, nil
	}
	return m, m.forwardScroll(msg)
}

func (m *Model) cycleTab(delta int) {
	n := len(m.tabs)
	if n == 0 {
		return
	}
	m.activeTab = ((m.activeTab+delta)%n + n) % n
	if m.activeTab == tabSessions {
		m.sessionTable.Focus()
	} else {
		m.sessionTable.Blur()
	}
}

func (m *Model) stepWindow(dir int) (tea.Model, tea.Cmd) {
	m.cfg.CurveWindow = stepCurveWindow(m.cfg.CurveWindow, dir)
	m.refreshReport()
	m.resize()
	return m, nil
}

func (m *Model) scrollEdge(top bool) {
	if m.activeTab == tabSessions {
		if top {
			m.sessionTable.GotoTop()
		} else {
			m.sessionTable.GotoBottom()
		}
		return
	}
	if top {
		m.viewports[m.activeTab].GotoTop()
	} else {
		m.viewports[m.activeTab].GotoBottom()
	}
}

func (m *Model) forwardScroll(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if m.activeTab == tabSessions {
		m.sessionTable, cmd = m.sessionTable.Update(msg)
		return cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return cmd
}

// frameHeights splits the terminal height into header, body and footer
// regions.
func (m *Model) frameHeights() (header, body, footer int) {
	header = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footer = 1
	if m.errMsg != "" && !m.filterMode {
		footer++
	}
	body = max(m.height-header-footer, 1)
	return header, body, footer
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyH, _ := m.frameHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyH
	}
	m.setSessionTableSize(m.width, bodyH)
	for i := range m.filterInputs {
		prompt := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-prompt-2)
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.fillViewports("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.sessionTable.SetRows(buildSessionRows(report.Sessions))
	_, bodyH, _ := m.frameHeights()
	m.setSessionTableSize(m.contentWidth(), bodyH)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		m.fillViewports("Failed to load stats.")
		return
	}
	width := m.contentWidth()
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.viewports[tabResponses].SetContent(renderResponses(m.report, m.cfg.CurveWindow, width))
}

func (m *Model) fillViewports(msg string) {
	for i := range m.viewports {
		m.viewports[i].SetContent(msg)
	}
}

func (m *Model) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 80
}

// stepCurveWindow moves the curve window to the next or previous
// multiple of five, bottoming out at 1.
func stepCurveWindow(n, dir int) int {
	if dir > 0 {
		return (n/5 + 1) * 5
	}
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}
