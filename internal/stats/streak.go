package stats

import "github.com/bohdon/deadlock-parry/internal/model"

// LongestStreak returns the longest unbroken run of successful parries.
func LongestStreak(success []bool) int {
	best := 0
	run := 0
	for _, ok := range success {
		if !ok {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// CurrentStreak returns the unbroken run of successes ending at the
// most recent round.
func CurrentStreak(success []bool) int {
	run := 0
	for i := len(success) - 1; i >= 0; i-- {
		if !success[i] {
			break
		}
		run++
	}
	return run
}

// SuccessFlags extracts per-round success flags in order.
func SuccessFlags(rounds []model.RoundRecord) []bool {
	out := make([]bool, len(rounds))
	for i, r := range rounds {
		out[i] = r.Success
	}
	return out
}

// AggregateSuccessFlags extracts success flags from stored rounds in
// order.
func AggregateSuccessFlags(rounds []model.RoundAggregate) []bool {
	out := make([]bool, len(rounds))
	for i, r := range rounds {
		out[i] = r.Success
	}
	return out
}
