// Package tui implements the practice screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bohdon/deadlock-parry/internal/input"
	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/session"
	statsPkg "github.com/bohdon/deadlock-parry/internal/stats"
)

type phase int

const (
	phaseWaiting phase = iota
	phaseArmed
	phaseEnded
)

type lineKind int

const (
	lineSuccess lineKind = iota
	lineDeath
	lineSummary
)

const (
	// transcriptKeep bounds the retained round history.
	transcriptKeep = 64
	// transcriptVisible bounds how many history lines a tall screen shows.
	transcriptVisible = 10
	// sparkWindow bounds how many recent response times feed the sparkline.
	sparkWindow = 24
)

type transcriptLine struct {
	kind lineKind
	text string
}

type eventMsg struct {
	event session.Event
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config  model.Config
	watcher *input.Watcher
	events  <-chan session.Event
	cancel  context.CancelFunc

	width  int
	height int

	phase     phase
	totals    model.SessionStats
	flags     []bool
	latencies []float64
	lines     []transcriptLine

	endReason string
	endErr    error
}

var (
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	waitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	punchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	deathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a practice TUI model. Key presses are forwarded to
// watcher, session events are drained from events, and cancel stops the
// practice loop when the user quits.
func NewModel(cfg model.Config, watcher *input.Watcher, events <-chan session.Event, cancel context.CancelFunc) *Model {
	return &Model{
		config:  cfg,
		watcher: watcher,
		events:  events,
		cancel:  cancel,
		phase:   phaseWaiting,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitEvent(m.events)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeySpace:
			m.watcher.Offer(input.KeySpace, time.Now())
			return m, nil
		case tea.KeyRunes:
			at := time.Now()
			for _, r := range msg.Runes {
				m.watcher.Offer(input.FromRune(r), at)
			}
			return m, nil
		default:
			return m, nil
		}
	case eventMsg:
		return m.handleEvent(msg.event)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	status := m.renderStatus()
	if m.width == 0 || m.height == 0 {
		return status
	}
	content := status
	if transcript := m.renderTranscript(m.transcriptBudget()); transcript != "" {
		content = lipgloss.JoinVertical(lipgloss.Center, status, "", transcript)
	}
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	banner := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, bannerStyle.Render(m.renderBanner()))
	footer := m.renderFooter()
	bodyHeight := m.height - 1
	if footer != "" {
		bodyHeight--
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	if footer == "" {
		return banner + "\n" + body
	}
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return banner + "\n" + body + "\n" + footerLine
}

func waitEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return tea.QuitMsg{}
		}
		return eventMsg{event: ev}
	}
}

func (m *Model) handleEvent(ev session.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case session.RoundScheduled:
		m.phase = phaseWaiting
	case session.Punch:
		m.phase = phaseArmed
	case session.RoundResolved:
		m.phase = phaseWaiting
		m.totals = ev.Totals
		m.flags = append(m.flags, ev.Outcome.Success)
		kind := lineDeath
		if ev.Outcome.Success {
			kind = lineSuccess
			m.latencies = append(m.latencies, float64(ev.Outcome.LatencyMs))
			if len(m.latencies) > sparkWindow {
				m.latencies = m.latencies[len(m.latencies)-sparkWindow:]
			}
		}
		m.appendLine(kind, statsPkg.FormatOutcomeLine(ev.Outcome))
		m.appendLine(lineSummary, statsPkg.FormatSummaryLine(ev.Totals))
	case session.Ended:
		m.phase = phaseEnded
		m.endReason = ev.Reason
		m.endErr = ev.Err
		return m, tea.Quit
	}
	return m, waitEvent(m.events)
}

func (m *Model) appendLine(kind lineKind, text string) {
	m.lines = append(m.lines, transcriptLine{kind: kind, text: text})
	if len(m.lines) > transcriptKeep {
		m.lines = m.lines[len(m.lines)-transcriptKeep:]
	}
}

func (m *Model) renderBanner() string {
	segments := []string{
		fmt.Sprintf("Delay %d..%ds", m.config.DelayMin, m.config.DelayMax),
		fmt.Sprintf("Window %dms", m.config.ParryWindowMs),
		fmt.Sprintf("Key %s", m.watcher.Key()),
		"Ctrl+C to quit",
	}
	return strings.Join(segments, " · ")
}

func (m *Model) renderStatus() string {
	switch m.phase {
	case phaseArmed:
		return punchStyle.Render("PUNCH!")
	case phaseEnded:
		if m.endErr != nil {
			return deathStyle.Render(fmt.Sprintf("Input failed: %v", m.endErr))
		}
		if m.endReason == session.EndReasonDeath {
			return deathStyle.Render("You died.")
		}
		return waitStyle.Render("Session over.")
	default:
		return waitStyle.Render("Stay ready...")
	}
}

func (m *Model) transcriptBudget() int {
	budget := m.height - 6
	if budget > transcriptVisible {
		budget = transcriptVisible
	}
	if budget < 0 {
		budget = 0
	}
	return budget
}

func (m *Model) renderTranscript(limit int) string {
	if limit <= 0 || len(m.lines) == 0 {
		return ""
	}
	lines := m.lines
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, lineStyle(line.kind).Render(line.text))
	}
	return strings.Join(rendered, "\n")
}

func lineStyle(kind lineKind) lipgloss.Style {
	switch kind {
	case lineSuccess:
		return successStyle
	case lineDeath:
		return deathStyle
	default:
		return summaryStyle
	}
}

func (m *Model) renderFooter() string {
	if m.totals.Attempts == 0 {
		return ""
	}
	segments := []string{
		fmt.Sprintf("Parries %d/%d · %.2f%%", m.totals.Successes, m.totals.Attempts, statsPkg.SuccessRate(m.totals)*100),
	}
	if avg, ok := statsPkg.AverageLatencyMs(m.totals); ok {
		segments = append(segments, fmt.Sprintf("Avg %dms", avg))
	}
	if streak := statsPkg.CurrentStreak(m.flags); streak > 1 {
		segments = append(segments, fmt.Sprintf("Streak %d", streak))
	}
	if len(m.latencies) >= 2 {
		segments = append(segments, statsPkg.Sparkline(m.latencies))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
