// Package judge resolves the race between the punch window and the
// player's parry press.
package judge

import (
	"context"
	"errors"
	"time"

	"github.com/bohdon/deadlock-parry/internal/model"
)

// ErrInputClosed reports that the press stream ended while the judge
// was reading it.
var ErrInputClosed = errors.New("press stream closed")

// Judge times parry presses against the punch window. Press timestamps
// decide outcomes, not delivery order, so a press queued just before
// the window elapses still lands.
type Judge struct {
	presses <-chan time.Time
	window  time.Duration
	clock   Clock
}

// New returns a judge reading presses and allowing the given window.
func New(presses <-chan time.Time, window time.Duration) *Judge {
	return NewWithClock(presses, window, SystemClock())
}

// NewWithClock is New with an explicit clock.
func NewWithClock(presses <-chan time.Time, window time.Duration, clock Clock) *Judge {
	return &Judge{presses: presses, window: window, clock: clock}
}

// Wait sleeps through the quiet delay before a punch, discarding any
// presses made during it. Pressing early neither helps nor hurts.
func (j *Judge) Wait(ctx context.Context, delay time.Duration) error {
	timer := j.clock.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-j.presses:
			if !ok {
				return ErrInputClosed
			}
		case <-timer.C():
			return nil
		}
	}
}

// Round arms the window at the moment of the punch and resolves it.
// The first press stamped inside the window is a successful parry with
// its latency; the window elapsing without one is a death. Presses
// stamped before the punch are leftovers from the quiet delay and are
// skipped.
func (j *Judge) Round(ctx context.Context) (model.Outcome, error) {
	armedAt := j.clock.Now()
	timer := j.clock.NewTimer(j.window)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return model.Outcome{}, ctx.Err()
		case at, ok := <-j.presses:
			if !ok {
				return model.Outcome{}, ErrInputClosed
			}
			if out, ok := j.resolve(armedAt, at); ok {
				return out, nil
			}
		case <-timer.C():
			return j.drain(armedAt)
		}
	}
}

// drain empties presses already queued when the window timer fired.
// One of them may still be stamped inside the window.
func (j *Judge) drain(armedAt time.Time) (model.Outcome, error) {
	for {
		select {
		case at, ok := <-j.presses:
			if !ok {
				return model.Outcome{}, ErrInputClosed
			}
			if out, ok := j.resolve(armedAt, at); ok {
				return out, nil
			}
		default:
			return model.Outcome{Success: false}, nil
		}
	}
}

// resolve judges a single press against the armed window. It reports
// false for stale presses, which leave the round open.
func (j *Judge) resolve(armedAt, at time.Time) (model.Outcome, bool) {
	if at.Before(armedAt) {
		return model.Outcome{}, false
	}
	elapsed := at.Sub(armedAt)
	if elapsed > j.window {
		return model.Outcome{Success: false}, true
	}
	return model.Outcome{Success: true, LatencyMs: latencyMs(elapsed)}, true
}

// latencyMs rounds a parry latency to whole milliseconds.
func latencyMs(d time.Duration) int64 {
	return d.Round(time.Millisecond).Milliseconds()
}
