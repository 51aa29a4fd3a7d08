package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/snacktap/internal/model"
	"github.com/verte-zerg/snacktap/internal/store"
)

// Report is the data behind the stats views.
type Report struct {
	Sessions []model.SessionAggregate
	// Recent is the tail of Sessions inside the curve window.
	Recent []model.SessionAggregate
	// Best is the highest-scoring session; the earliest wins a tie.
	Best        *model.SessionAggregate
	Items       []model.ItemAggregate
	RecentItems []model.ItemAggregate
}

// BuildReport loads sessions matching cfg, keeps the last cfg.Last of them and
// totals snacks over all of them and over the curve window.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	report := Report{Sessions: tail(sessions, cfg.Last)}
	if len(report.Sessions) == 0 {
		return report, nil
	}
	report.Recent = tail(report.Sessions, cfg.CurveWindow)
	report.Best = bestSession(report.Sessions)

	report.Items, err = st.ListItemAggregatesForSessions(ctx, idsOf(report.Sessions))
	if err != nil {
		return Report{}, fmt.Errorf("failed to total snacks: %w", err)
	}
	if len(report.Recent) == len(report.Sessions) {
		report.RecentItems = report.Items
		return report, nil
	}
	report.RecentItems, err = st.ListItemAggregatesForSessions(ctx, idsOf(report.Recent))
	if err != nil {
		return Report{}, fmt.Errorf("failed to total recent snacks: %w", err)
	}
	return report, nil
}

// tail returns the last n sessions, or all of them when n <= 0.
func tail(sessions []model.SessionAggregate, n int) []model.SessionAggregate {
	if n <= 0 || len(sessions) <= n {
		return sessions
	}
	return sessions[len(sessions)-n:]
}

func bestSession(sessions []model.SessionAggregate) *model.SessionAggregate {
	if len(sessions) == 0 {
		return nil
	}
	best := sessions[0]
	for _, s := range sessions[1:] {
		if s.TotalScore > best.TotalScore {
			best = s
		}
	}
	return &best
}

func idsOf(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
