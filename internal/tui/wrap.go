package tui

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

var (
	markupTagPattern = regexp.MustCompile(`<[^>]*>`)
	colorPattern     = regexp.MustCompile(`(?i)color\s*:\s*([^;"]+)`)
)

var namedColors = map[string]string{
	"white": "#FFFFFF",
	"black": "#000000",
}

// buildStyledRunes converts question markup into styled runes. <b> and colour
// spans nest; any other tag is dropped.
func buildStyledRunes(markup string) []styledRune {
	stack := []lipgloss.Style{questionStyle}
	out := make([]styledRune, 0, len(markup))
	last := 0
	emit := func(text string) {
		style := stack[len(stack)-1]
		for _, r := range html.UnescapeString(text) {
			out = append(out, styledRune{
				s:       style.Render(string(r)),
				width:   runewidth.RuneWidth(r),
				isSpace: r == ' ',
			})
		}
	}
	for _, loc := range markupTagPattern.FindAllStringIndex(markup, -1) {
		emit(markup[last:loc[0]])
		last = loc[1]
		tag := strings.ToLower(markup[loc[0]:loc[1]])
		switch {
		case tag == "<b>" || tag == "<strong>":
			stack = append(stack, stack[len(stack)-1].Bold(true))
		case strings.HasPrefix(tag, "<span"):
			style := stack[len(stack)-1].Bold(true)
			if color, ok := spanColor(markup[loc[0]:loc[1]]); ok {
				style = style.Foreground(lipgloss.Color(color))
			}
			stack = append(stack, style)
		case tag == "</b>" || tag == "</strong>" || tag == "</span>":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	emit(markup[last:])
	return out
}

func spanColor(tag string) (string, bool) {
	match := colorPattern.FindStringSubmatch(tag)
	if match == nil {
		return "", false
	}
	color := strings.TrimSpace(match[1])
	if strings.HasPrefix(color, "#") {
		return color, true
	}
	named, ok := namedColors[strings.ToLower(color)]
	return named, ok
}

// plainText strips markup from a question.
func plainText(markup string) string {
	return html.UnescapeString(markupTagPattern.ReplaceAllString(markup, ""))
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
