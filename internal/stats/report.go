package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/pvptrainer/internal/model"
	"github.com/verte-zerg/pvptrainer/internal/store"
)

const (
	trendWindow = 10
	missedTop   = 5
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts   []model.Attempt
	Categories []model.CategoryAggregate
	Missed     []Missed
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	attempts, err := st.ListAttempts(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	aggs, err := st.ListCategoryAggregates(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Attempts:   attempts,
		Categories: aggs,
		Missed:     MostMissed(attempts, missedTop),
	}, nil
}

// Render writes the full report. Colour and width follow the writer's terminal.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.Attempts); err != nil {
		return err
	}
	if len(r.Attempts) == 0 {
		return nil
	}
	if err := RenderTrend(w, r.Attempts, trendWindow, terminalWidth(w)); err != nil {
		return err
	}
	if err := RenderCategoryTableWithColor(w, r.Categories, shouldUseColor(w)); err != nil {
		return err
	}
	return RenderMissed(w, r.Missed)
}
