// Package stats computes and renders practice statistics.
package stats

import (
	"context"

	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/store"
)

// Report bundles the loaded history the stats views draw from.
type Report struct {
	Sessions     []model.SessionAggregate
	RoundsAll    []model.RoundAggregate
	RoundsWindow []model.RoundAggregate
}

// BuildReport loads and prepares data for stats rendering. RoundsWindow
// holds the rounds of the most recent CurveWindow sessions only.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	sessions = tailSessions(sessions, cfg.Last)

	rep := Report{Sessions: sessions}
	if rep.RoundsAll, err = st.ListRoundsForSessions(ctx, sessionIDs(sessions)); err != nil {
		return Report{}, err
	}
	window := tailSessions(sessions, cfg.CurveWindow)
	if rep.RoundsWindow, err = st.ListRoundsForSessions(ctx, sessionIDs(window)); err != nil {
		return Report{}, err
	}
	return rep, nil
}

// tailSessions keeps the most recent n sessions, or all of them when n <= 0.
func tailSessions(sessions []model.SessionAggregate, n int) []model.SessionAggregate {
	if n <= 0 || len(sessions) <= n {
		return sessions
	}
	return sessions[len(sessions)-n:]
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}
	return ids
}
