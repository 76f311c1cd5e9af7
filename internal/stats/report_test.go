package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pvptrainer/internal/model"
	"github.com/verte-zerg/pvptrainer/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "pvptrainer.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		a := model.Attempt{
			AnsweredAt: time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Shell:      "tui",
			Category:   model.CategoryFastAttack,
			Dataset:    "great.json",
			MaxCP:      1500,
			Answer:     "3",
			Input:      "2",
			Correct:    i == 2,
		}
		if _, err := st.InsertAttempt(ctx, a); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.HistoryFilter{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(report.Attempts))
	}
	if report.Attempts[0].Correct || !report.Attempts[1].Correct {
		t.Fatalf("unexpected attempt order: %+v", report.Attempts)
	}
	if len(report.Categories) != 1 || report.Categories[0].Correct != 1 || report.Categories[0].Incorrect != 1 {
		t.Fatalf("unexpected aggregates: %+v", report.Categories)
	}
	if len(report.Missed) != 1 || report.Missed[0].Count != 1 {
		t.Fatalf("unexpected missed: %+v", report.Missed)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "Trend: ", "Per-Category", "Most Missed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
}
