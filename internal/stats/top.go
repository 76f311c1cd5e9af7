package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

// Missed counts wrong answers for one expected answer.
type Missed struct {
	Category model.Category
	Answer   string
	Count    int
}

// MostMissed returns the top N expected answers by number of wrong attempts.
func MostMissed(attempts []model.Attempt, n int) []Missed {
	if n <= 0 || len(attempts) == 0 {
		return nil
	}
	type key struct {
		category model.Category
		answer   string
	}
	counts := map[key]int{}
	for _, a := range attempts {
		if a.Correct {
			continue
		}
		counts[key{a.Category, a.Answer}]++
	}
	items := make([]Missed, 0, len(counts))
	for k, c := range counts {
		items = append(items, Missed{Category: k.category, Answer: k.answer, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			if items[i].Category == items[j].Category {
				return items[i].Answer < items[j].Answer
			}
			return items[i].Category < items[j].Category
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// RenderMissed prints the most missed answers.
func RenderMissed(w io.Writer, missed []Missed) error {
	if len(missed) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Most Missed"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(missed))
	for _, m := range missed {
		rows = append(rows, []string{string(m.Category), m.Answer, fmt.Sprintf("%d", m.Count)})
	}
	for _, line := range formatTable([]string{"Category", "Answer", "Misses"}, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
