package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "deadlock-parry.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Hour)
		end := start.Add(10 * time.Minute)
		rec := model.SessionRecord{
			StartedAt:     start,
			EndedAt:       end,
			DelayMin:      15,
			DelayMax:      240,
			ParryWindowMs: 600,
			ParryKey:      "f",
			Attempts:      3,
			Successes:     2,
			LatencySumMs:  800,
			EndReason:     "quit",
		}
		rounds := []model.RoundRecord{
			{Seq: 1, ArmedAt: start.Add(time.Minute), Success: true, LatencyMs: 420},
			{Seq: 2, ArmedAt: start.Add(2 * time.Minute), Success: false},
			{Seq: 3, ArmedAt: start.Add(3 * time.Minute), Success: true, LatencyMs: 380},
		}
		id, err := st.InsertSession(ctx, rec, rounds)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if report.Sessions[0].ParryWindowMs != 600 || report.Sessions[0].ParryKey != "f" {
		t.Fatalf("unexpected session config: %+v", report.Sessions[0])
	}
	if report.Sessions[0].EndReason != "quit" {
		t.Fatalf("unexpected end reason: %+v", report.Sessions[0])
	}
	if len(report.RoundsAll) != 6 {
		t.Fatalf("expected 6 rounds across 2 sessions, got %d", len(report.RoundsAll))
	}
	if len(report.RoundsWindow) != 3 {
		t.Fatalf("expected 3 rounds in the curve window, got %d", len(report.RoundsWindow))
	}
	for i, r := range report.RoundsWindow {
		if r.SessionID != ids[2] {
			t.Fatalf("expected window rounds from the latest session, got %+v", r)
		}
		if r.Seq != i+1 {
			t.Fatalf("expected rounds ordered by seq, got %+v", report.RoundsWindow)
		}
	}
	if !report.RoundsWindow[0].Success || report.RoundsWindow[0].LatencyMs != 420 {
		t.Fatalf("unexpected first round: %+v", report.RoundsWindow[0])
	}
	if report.RoundsWindow[1].Success {
		t.Fatalf("expected second round to be a death: %+v", report.RoundsWindow[1])
	}
}

func TestBuildReportSince(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "deadlock-parry.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	old := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, endedAt := range []time.Time{old, recent} {
		rec := model.SessionRecord{
			StartedAt:     endedAt.Add(-10 * time.Minute),
			EndedAt:       endedAt,
			DelayMin:      15,
			DelayMax:      240,
			ParryWindowMs: 600,
			ParryKey:      "f",
			Attempts:      1,
			Successes:     1,
			LatencySumMs:  400,
			EndReason:     "quit",
		}
		if _, err := st.InsertSession(ctx, rec, nil); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	since := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	report, err := BuildReport(ctx, st, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 1 {
		t.Fatalf("expected 1 session since %v, got %d", since, len(report.Sessions))
	}
	if !report.Sessions[0].EndedAt.Equal(recent) {
		t.Fatalf("unexpected session: %+v", report.Sessions[0])
	}
}
