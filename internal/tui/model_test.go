package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bohdon/deadlock-parry/internal/input"
	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/session"
)

func testModel() *Model {
	cfg := model.Config{DelayMin: 15, DelayMax: 240, ParryWindowMs: 600, ParryKey: "f"}
	return NewModel(cfg, input.NewWatcher("f"), nil, func() {})
}

func TestKeyPressForwarded(t *testing.T) {
	m := testModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'F'}})
	select {
	case <-m.watcher.Presses():
	default:
		t.Fatalf("expected parry key press to reach the watcher")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	select {
	case <-m.watcher.Presses():
		t.Fatalf("expected other keys to be ignored")
	default:
	}
}

func TestSpaceKeyForwarded(t *testing.T) {
	cfg := model.Config{DelayMin: 15, DelayMax: 240, ParryWindowMs: 600, ParryKey: "space"}
	m := NewModel(cfg, input.NewWatcher(input.KeySpace), nil, func() {})
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	select {
	case <-m.watcher.Presses():
	default:
		t.Fatalf("expected space press to reach the watcher")
	}
}

func TestQuitKeysCancel(t *testing.T) {
	canceled := false
	cfg := model.Config{DelayMin: 15, DelayMax: 240, ParryWindowMs: 600, ParryKey: "f"}
	m := NewModel(cfg, input.NewWatcher("f"), nil, func() { canceled = true })
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !canceled {
		t.Fatalf("expected quit key to cancel the session")
	}
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected a quit message")
	}
}

func TestHandleEventsRecordsRound(t *testing.T) {
	m := testModel()
	m.handleEvent(session.RoundScheduled{Delay: 20 * time.Second})
	if m.phase != phaseWaiting {
		t.Fatalf("expected waiting phase after scheduling, got %d", m.phase)
	}
	m.handleEvent(session.Punch{ArmedAt: time.Now()})
	if m.phase != phaseArmed {
		t.Fatalf("expected armed phase after punch, got %d", m.phase)
	}
	m.handleEvent(session.RoundResolved{
		Outcome: model.Outcome{Success: true, LatencyMs: 120},
		Totals:  model.SessionStats{Attempts: 1, Successes: 1, LatencySumMs: 120},
	})
	if m.phase != phaseWaiting {
		t.Fatalf("expected waiting phase after resolution, got %d", m.phase)
	}
	if len(m.lines) != 2 {
		t.Fatalf("expected outcome and summary lines, got %d", len(m.lines))
	}
	if m.lines[0].text != "Parry success: 120ms" {
		t.Fatalf("unexpected outcome line: %q", m.lines[0].text)
	}
	if m.lines[1].text != "1 / 1 (100.00%), average response: 120ms" {
		t.Fatalf("unexpected summary line: %q", m.lines[1].text)
	}
	if len(m.flags) != 1 || !m.flags[0] {
		t.Fatalf("expected a recorded success flag, got %v", m.flags)
	}
	if len(m.latencies) != 1 || m.latencies[0] != 120 {
		t.Fatalf("expected recorded latency, got %v", m.latencies)
	}
}

func TestHandleEndedQuits(t *testing.T) {
	m := testModel()
	_, cmd := m.handleEvent(session.Ended{Reason: session.EndReasonDeath})
	if m.phase != phaseEnded {
		t.Fatalf("expected ended phase, got %d", m.phase)
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected a quit message")
	}
	if !strings.Contains(m.renderStatus(), "You died.") {
		t.Fatalf("unexpected ended status: %q", m.renderStatus())
	}
}

func TestRenderBanner(t *testing.T) {
	m := testModel()
	out := m.renderBanner()
	if !containsAll(out, []string{"Delay 15..240s", "Window 600ms", "Key f", "Ctrl+C"}) {
		t.Fatalf("banner missing expected segments: %s", out)
	}
}

func TestTranscriptTrimmed(t *testing.T) {
	m := testModel()
	for i := 0; i < transcriptKeep+8; i++ {
		m.appendLine(lineSummary, "line")
	}
	if len(m.lines) != transcriptKeep {
		t.Fatalf("expected transcript capped at %d lines, got %d", transcriptKeep, len(m.lines))
	}
}

func TestViewShowsStatus(t *testing.T) {
	m := testModel()
	m.width = 80
	m.height = 24
	if !strings.Contains(m.View(), "Stay ready") {
		t.Fatalf("expected waiting status in view")
	}
	m.phase = phaseArmed
	if !strings.Contains(m.View(), "PUNCH!") {
		t.Fatalf("expected punch status in view")
	}
}
