package stats

import (
	"testing"
	"time"

	"github.com/bohdon/deadlock-parry/internal/model"
)

func TestRecordAccumulatesTranscript(t *testing.T) {
	agg := NewAggregator()
	armed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	priors := []int64{430, 380, 390, 400, 360}
	for _, ms := range priors {
		agg.Record(armed, model.Outcome{Success: true, LatencyMs: ms})
		armed = armed.Add(30 * time.Second)
	}
	agg.Record(armed, model.Outcome{Success: false})
	armed = armed.Add(30 * time.Second)
	agg.Record(armed, model.Outcome{Success: false})
	armed = armed.Add(30 * time.Second)

	totals := agg.Totals()
	if got := FormatSummaryLine(totals); got != "5 / 7 (71.43%), average response: 392ms" {
		t.Fatalf("unexpected summary after priors: %q", got)
	}

	totals = agg.Record(armed, model.Outcome{Success: true, LatencyMs: 429})
	armed = armed.Add(30 * time.Second)
	if got := FormatSummaryLine(totals); got != "6 / 8 (75.00%), average response: 398ms" {
		t.Fatalf("unexpected summary after parry: %q", got)
	}

	totals = agg.Record(armed, model.Outcome{Success: false})
	if got := FormatSummaryLine(totals); got != "6 / 9 (66.67%), average response: 398ms" {
		t.Fatalf("unexpected summary after death: %q", got)
	}
}

func TestRecordKeepsRoundOrder(t *testing.T) {
	agg := NewAggregator()
	armed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	agg.Record(armed, model.Outcome{Success: true, LatencyMs: 300})
	agg.Record(armed.Add(time.Minute), model.Outcome{Success: false})
	agg.Record(armed.Add(2*time.Minute), model.Outcome{Success: true, LatencyMs: 250})

	rounds := agg.Rounds()
	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(rounds))
	}
	for i, r := range rounds {
		if r.Seq != i+1 {
			t.Fatalf("expected seq %d, got %d", i+1, r.Seq)
		}
	}
	if rounds[1].Success || rounds[1].LatencyMs != 0 {
		t.Fatalf("expected death round with no latency, got %+v", rounds[1])
	}
	if !rounds[2].Success || rounds[2].LatencyMs != 250 {
		t.Fatalf("unexpected final round: %+v", rounds[2])
	}

	rounds[0].LatencyMs = 999
	if got := agg.Rounds()[0].LatencyMs; got != 300 {
		t.Fatalf("expected Rounds to return a copy, got %d", got)
	}
}

func TestTotalsBeforeAnyRound(t *testing.T) {
	agg := NewAggregator()
	totals := agg.Totals()
	if totals.Attempts != 0 || totals.Successes != 0 || totals.LatencySumMs != 0 {
		t.Fatalf("expected zeroed totals, got %+v", totals)
	}
}
