// Package answer checks user input against a generated question.
package answer

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

// Keypad keys with special meaning in AppendKey.
const (
	KeySeparator = ","
	KeyDelete    = "X"
)

// Check reports whether input answers q. Charged-move answers compare as
// integer sequences; everything else compares trimmed strings.
func Check(q model.Question, input string) bool {
	if q.IsZero() {
		return false
	}
	if q.Category == model.CategoryChargedMove {
		want, ok := ParseSequence(q.Answer)
		if !ok {
			return false
		}
		got, ok := ParseSequence(input)
		if !ok || len(got) != len(want) {
			return false
		}
		for i := range want {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(input) == strings.TrimSpace(q.Answer)
}

// ParseSequence parses "2, 4,6 ,8" into integers. Empty items are skipped.
func ParseSequence(s string) ([]int, bool) {
	s = strings.ReplaceAll(s, " ", "")
	var out []int
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// AppendKey applies one keypad press to a charged-move input.
func AppendKey(input, key string) string {
	switch key {
	case KeyDelete:
		runes := []rune(input)
		if len(runes) == 0 {
			return input
		}
		return string(runes[:len(runes)-1])
	case KeySeparator:
		if strings.HasSuffix(input, ", ") {
			return input
		}
		return input + ", "
	default:
		return input + key
	}
}
