package main

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/snacktap/internal/model"
	"github.com/verte-zerg/snacktap/internal/stats"
	"github.com/verte-zerg/snacktap/internal/store"
)

func writePlainReport(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	values := stats.ScoreSeries(report.Sessions, cfg.CurveWindow)
	if err := stats.RenderScoreCurve(w, "Score (moving average)", values, 0, 8); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", stats.RecentLine(report, 3)); err != nil {
		return err
	}
	return stats.RenderItemTable(w, report.Items)
}
