package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		question:       model.Question{Category: model.CategoryFastAttack},
		hasQuestion:    true,
		sessionCorrect: 3,
		sessionTotal:   4,
		allCorrect:     969,
		allIncorrect:   31,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"fast_attack", "Score 3/4", "All-time 96.9%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterWithoutQuestion(t *testing.T) {
	m := &Model{}
	out := m.renderFooter()
	if !containsAll(out, []string{"Score 0/0", "All-time 0.0%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "fast_attack") {
		t.Fatalf("expected no category without a question: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
