package stats

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/snacktap/internal/model"
)

// TopItemsByConsumed returns the top N items by times eaten.
func TopItemsByConsumed(aggs []model.ItemAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := SortItemsByConsumed(aggs)
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sorted[i].Item)
	}
	return out
}

// RecentLine describes the curve window: a score trend and its favourite snacks.
func RecentLine(report Report, n int) string {
	if len(report.Recent) == 0 {
		return ""
	}
	values := make([]float64, len(report.Recent))
	for i, s := range report.Recent {
		values[i] = float64(s.TotalScore)
	}
	line := fmt.Sprintf("Recent %d: %s", len(report.Recent), Sparkline(values))
	if top := TopItemsByConsumed(report.RecentItems, n); len(top) > 0 {
		line += "  favourites " + strings.Join(top, " ")
	}
	if report.Best != nil {
		line += fmt.Sprintf("  best %d on %s", report.Best.TotalScore, report.Best.EndedAt.Local().Format("2006-01-02"))
	}
	return line
}
