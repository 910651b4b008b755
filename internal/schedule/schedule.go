// Package schedule draws the random quiet delay before each punch.
package schedule

import (
	"fmt"
	"math/rand"
	"time"
)

// Scheduler draws punch delays uniformly from an inclusive range of
// whole seconds.
type Scheduler struct {
	min int
	max int
	rnd *rand.Rand
}

// New returns a Scheduler seeded with the current time, drawing from
// [min, max] seconds.
func New(min, max int) (*Scheduler, error) {
	if min <= 0 {
		return nil, fmt.Errorf("minimum delay must be at least 1s, got %ds", min)
	}
	if max < min {
		return nil, fmt.Errorf("maximum delay %ds is below minimum %ds", max, min)
	}
	return &Scheduler{
		min: min,
		max: max,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Next draws the delay before the next punch.
func (s *Scheduler) Next() time.Duration {
	n := s.min + s.rnd.Intn(s.max-s.min+1)
	return time.Duration(n) * time.Second
}
