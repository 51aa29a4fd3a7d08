// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/snacktap/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes points per minute and average points per event.
func SessionMetrics(score, events int, durationMs int64) (perMinute, perEvent float64) {
	if events > 0 {
		perEvent = float64(score) / float64(events)
	}
	if durationMs <= 0 {
		return 0, perEvent
	}
	minutes := float64(durationMs) / 60000.0
	perMinute = float64(score) / minutes
	return perMinute, perEvent
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := bounds(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func bounds(values []float64) (minVal, maxVal float64) {
	minVal = values[0]
	maxVal = values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// Summary holds totals across sessions.
type Summary struct {
	Sessions     int
	TotalScore   int
	BestScore    int
	BestCombo    int
	Events       int
	AvgScore     float64
	AvgPerMinute float64
}

// Summarize totals a list of sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	var sum Summary
	if len(sessions) == 0 {
		return sum
	}
	var totalPerMinute float64
	for _, s := range sessions {
		perMinute, _ := SessionMetrics(s.TotalScore, s.Events, s.DurationMs)
		totalPerMinute += perMinute
		sum.TotalScore += s.TotalScore
		sum.Events += s.Events
		if s.TotalScore > sum.BestScore {
			sum.BestScore = s.TotalScore
		}
		if s.BestCombo > sum.BestCombo {
			sum.BestCombo = s.BestCombo
		}
	}
	sum.Sessions = len(sessions)
	count := float64(len(sessions))
	sum.AvgScore = float64(sum.TotalScore) / count
	sum.AvgPerMinute = totalPerMinute / count
	return sum
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Snacks eaten: %d", sum.Events),
		fmt.Sprintf("Total score: %d", sum.TotalScore),
		fmt.Sprintf("Best score: %d", sum.BestScore),
		fmt.Sprintf("Avg score: %.1f", sum.AvgScore),
		fmt.Sprintf("Avg points/min: %.1f", sum.AvgPerMinute),
		fmt.Sprintf("Best combo: %d", sum.BestCombo),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ScoreSeries returns per-session scores smoothed over window.
func ScoreSeries(sessions []model.SessionAggregate, window int) []float64 {
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(s.TotalScore)
	}
	return MovingAverage(values, window)
}

// RenderItemTable prints per-item aggregates, most eaten first.
func RenderItemTable(w io.Writer, aggs []model.ItemAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No snacks eaten yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Snack"); err != nil {
		return err
	}
	for _, line := range FormatItemTable(aggs) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// ItemRow formats one aggregate as table cells.
func ItemRow(agg model.ItemAggregate) []string {
	avg := 0.0
	if agg.Consumed > 0 {
		avg = float64(agg.Score) / float64(agg.Consumed)
	}
	return []string{
		agg.Item,
		fmt.Sprintf("%d", agg.Consumed),
		fmt.Sprintf("%d", agg.BaseValue),
		fmt.Sprintf("%d", agg.Score),
		fmt.Sprintf("%.1f", avg),
	}
}

// SortItemsByConsumed orders aggregates by times eaten, then by item.
func SortItemsByConsumed(aggs []model.ItemAggregate) []model.ItemAggregate {
	out := append([]model.ItemAggregate(nil), aggs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Consumed == out[j].Consumed {
			return out[i].Item < out[j].Item
		}
		return out[i].Consumed > out[j].Consumed
	})
	return out
}

// FormatItemTable returns aligned table lines for aggregates, most eaten first.
func FormatItemTable(aggs []model.ItemAggregate) []string {
	sorted := SortItemsByConsumed(aggs)
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, ItemRow(agg))
	}
	headers := []string{"Snack", "Eaten", "Base", "Score", "Avg"}
	return formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}
