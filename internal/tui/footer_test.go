package tui

import (
	"strings"
	"testing"

	"github.com/bohdon/deadlock-parry/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		totals:    model.SessionStats{Attempts: 9, Successes: 6, LatencySumMs: 2388},
		flags:     []bool{false, true, true},
		latencies: []float64{430, 380, 390},
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Parries 6/9", "66.67%", "Avg 398ms", "Streak 2"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterEmptyBeforeFirstRound(t *testing.T) {
	m := &Model{}
	if out := m.renderFooter(); out != "" {
		t.Fatalf("expected empty footer before the first round, got %q", out)
	}
}

func TestRenderFooterSkipsStreakOfOne(t *testing.T) {
	m := &Model{
		totals: model.SessionStats{Attempts: 2, Successes: 1, LatencySumMs: 300},
		flags:  []bool{false, true},
	}
	out := m.renderFooter()
	if strings.Contains(out, "Streak") {
		t.Fatalf("expected no streak segment for a single parry: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
