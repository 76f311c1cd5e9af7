// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

const sparkChars = " .:-=+*#%@"

var (
	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	fairStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	poorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Accuracy returns the share of correct answers in [0, 1].
func Accuracy(correct, incorrect int) float64 {
	den := float64(correct + incorrect)
	if den <= 0 {
		return 0
	}
	return float64(correct) / den
}

// Streak returns the trailing and the longest run of correct answers.
func Streak(attempts []model.Attempt) (current, best int) {
	for _, a := range attempts {
		if !a.Correct {
			current = 0
			continue
		}
		current++
		if current > best {
			best = current
		}
	}
	return current, best
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

// Sparkline renders a single-line ASCII sparkline scaled to [0, 1].
func Sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(v * float64(len(sparkChars)-1)))
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

// RenderSummary prints overall counts, accuracy and streaks.
func RenderSummary(w io.Writer, attempts []model.Attempt) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No answers found.")
		return err
	}
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	current, best := Streak(attempts)
	lines := []string{
		"Summary",
		fmt.Sprintf("Answers: %d", len(attempts)),
		fmt.Sprintf("Correct: %d", correct),
		fmt.Sprintf("Accuracy: %.2f%%", Accuracy(correct, len(attempts)-correct)*100),
		fmt.Sprintf("Current streak: %d", current),
		fmt.Sprintf("Best streak: %d", best),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a moving-average accuracy sparkline no wider than width.
func RenderTrend(w io.Writer, attempts []model.Attempt, window, width int) error {
	if len(attempts) == 0 {
		return nil
	}
	values := make([]float64, len(attempts))
	for i, a := range attempts {
		if a.Correct {
			values[i] = 1
		}
	}
	values = MovingAverage(values, window)
	const label = "Trend: "
	if width > len(label) && len(values) > width-len(label) {
		values = values[len(values)-(width-len(label)):]
	}
	if _, err := fmt.Fprintln(w, label+Sparkline(values)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCategoryTable prints per-category aggregates, weakest first.
func RenderCategoryTable(w io.Writer, aggs []model.CategoryAggregate) error {
	return renderCategoryTable(w, aggs, false)
}

// RenderCategoryTableWithColor is RenderCategoryTable with optional coloured accuracy.
func RenderCategoryTableWithColor(w io.Writer, aggs []model.CategoryAggregate, useColor bool) error {
	return renderCategoryTable(w, aggs, useColor)
}

func renderCategoryTable(w io.Writer, aggs []model.CategoryAggregate, useColor bool) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No category stats found.")
		return err
	}
	rows := SortWeakestFirst(aggs)

	if _, err := fmt.Fprintln(w, "Per-Category"); err != nil {
		return err
	}
	headers := []string{"Category", "Accuracy", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			string(r.Category),
			fmt.Sprintf("%.2f%%", Accuracy(r.Correct, r.Incorrect)*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	lines := formatTable(headers, tableRows, rightAlign)
	for i, line := range lines {
		if useColor && i > 0 {
			r := rows[i-1]
			line = accuracyStyle(Accuracy(r.Correct, r.Incorrect)).Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SortWeakestFirst returns a copy of aggs ordered by ascending accuracy.
func SortWeakestFirst(aggs []model.CategoryAggregate) []model.CategoryAggregate {
	rows := make([]model.CategoryAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai := Accuracy(rows[i].Correct, rows[i].Incorrect)
		aj := Accuracy(rows[j].Correct, rows[j].Incorrect)
		if ai == aj {
			return rows[i].Category < rows[j].Category
		}
		return ai < aj
	})
	return rows
}

func accuracyStyle(acc float64) lipgloss.Style {
	switch {
	case acc >= 0.8:
		return goodStyle
	case acc >= 0.5:
		return fairStyle
	default:
		return poorStyle
	}
}
