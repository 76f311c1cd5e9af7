package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultColor is used for absent or unknown types.
const DefaultColor = "white"

var typeColors = map[string]string{
	"normal":   "#A8A77A",
	"fire":     "#EE8130",
	"water":    "#6390F0",
	"electric": "#F7D02C",
	"grass":    "#7AC74C",
	"ice":      "#96D9D6",
	"fighting": "#C22E28",
	"poison":   "#A33EA1",
	"ground":   "#E2BF65",
	"flying":   "#A98FF3",
	"psychic":  "#F95587",
	"bug":      "#A6B91A",
	"rock":     "#B6A136",
	"ghost":    "#735797",
	"dragon":   "#6F35FC",
	"dark":     "#705746",
	"steel":    "#B7B7CE",
	"fairy":    "#D685AD",
}

var (
	tagPattern       = regexp.MustCompile(`<[^>]*>`)
	spanOpenPattern  = regexp.MustCompile(`(?i)^<span\b`)
	spanClosePattern = regexp.MustCompile(`(?i)^</span\s*>$`)
)

// TypeColor returns the display color of an elemental type.
func TypeColor(typ string) string {
	if color, ok := typeColors[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return color
	}
	return DefaultColor
}

// StyleText wraps every occurrence of entity that is not already inside a span
// in a colored span. Applying it twice is the same as applying it once.
func StyleText(text, entity, color string) string {
	if entity == "" {
		return text
	}
	var b strings.Builder
	depth := 0
	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(text, -1) {
		writeSegment(&b, text[last:loc[0]], entity, color, depth == 0)
		tag := text[loc[0]:loc[1]]
		switch {
		case spanOpenPattern.MatchString(tag):
			depth++
		case spanClosePattern.MatchString(tag) && depth > 0:
			depth--
		}
		b.WriteString(tag)
		last = loc[1]
	}
	writeSegment(&b, text[last:], entity, color, depth == 0)
	return b.String()
}

// Entity is a named thing to color in question text.
type Entity struct {
	Name  string
	Color string
}

// StyleEntities styles the longest names first so a name contained in another
// does not split it.
func StyleEntities(text string, entities ...Entity) string {
	sorted := make([]Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Name) > len(sorted[j].Name)
	})
	for _, e := range sorted {
		text = StyleText(text, e.Name, e.Color)
	}
	return text
}

func styledSpan(entity, color string) string {
	return fmt.Sprintf(`<span style="font-size:16px; font-weight:bold; color:%s;">%s</span>`, color, entity)
}

func writeSegment(b *strings.Builder, segment, entity, color string, wrap bool) {
	if !wrap {
		b.WriteString(segment)
		return
	}
	b.WriteString(strings.ReplaceAll(segment, entity, styledSpan(entity, color)))
}
