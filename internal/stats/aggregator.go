package stats

import (
	"sync"
	"time"

	"github.com/bohdon/deadlock-parry/internal/model"
)

// Aggregator accumulates judged rounds for the current practice run.
// Totals only grow and reset with the process. It is safe for use from
// the session loop and the UI at the same time.
type Aggregator struct {
	mu     sync.Mutex
	totals model.SessionStats
	rounds []model.RoundRecord
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record folds one outcome into the running totals and returns a
// snapshot of them. Failed parries count an attempt but contribute no
// latency.
func (a *Aggregator) Record(armedAt time.Time, out model.Outcome) model.SessionStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals.Attempts++
	if out.Success {
		a.totals.Successes++
		a.totals.LatencySumMs += out.LatencyMs
	}
	a.rounds = append(a.rounds, model.RoundRecord{
		Seq:       a.totals.Attempts,
		ArmedAt:   armedAt,
		Success:   out.Success,
		LatencyMs: out.LatencyMs,
	})
	return a.totals
}

// Totals returns a snapshot of the running totals.
func (a *Aggregator) Totals() model.SessionStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// Rounds returns a copy of every recorded round in order.
func (a *Aggregator) Rounds() []model.RoundRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.RoundRecord, len(a.rounds))
	copy(out, a.rounds)
	return out
}
