package session

import (
	"time"

	"github.com/bohdon/deadlock-parry/internal/model"
)

// Event is a session loop notification delivered to the UI.
type Event interface {
	sessionEvent()
}

// RoundScheduled reports the drawn quiet delay before the next punch.
type RoundScheduled struct {
	Delay time.Duration
}

// Punch reports the stimulus moment; the parry window is open.
type Punch struct {
	ArmedAt time.Time
}

// RoundResolved reports a judged round and the updated totals.
type RoundResolved struct {
	Outcome model.Outcome
	Totals  model.SessionStats
}

// Ended reports that the session loop stopped.
type Ended struct {
	Reason string
	Err    error
}

func (RoundScheduled) sessionEvent() {}

func (Punch) sessionEvent() {}

func (RoundResolved) sessionEvent() {}

func (Ended) sessionEvent() {}
