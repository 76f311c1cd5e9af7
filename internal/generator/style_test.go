package generator

import (
	"strings"
	"testing"
)

func TestTypeColor(t *testing.T) {
	if got := TypeColor("Fire"); got != "#EE8130" {
		t.Fatalf("expected fire color, got %s", got)
	}
	if got := TypeColor(""); got != DefaultColor {
		t.Fatalf("expected default color for absent type, got %s", got)
	}
	if got := TypeColor("shadow"); got != DefaultColor {
		t.Fatalf("expected default color for unknown type, got %s", got)
	}
	if len(typeColors) != 18 {
		t.Fatalf("expected 18 type colors, got %d", len(typeColors))
	}
}

func TestStyleTextIdempotent(t *testing.T) {
	text := "How many turns does <b>Confusion</b> take?"
	once := StyleText(text, "Confusion", "#F95587")
	twice := StyleText(once, "Confusion", "#F95587")
	if once != twice {
		t.Fatalf("styling is not idempotent:\n%s\n%s", once, twice)
	}
	if strings.Count(once, "<span") != 1 {
		t.Fatalf("expected one span, got %s", once)
	}
}

func TestStyleTextLeavesMarkupAlone(t *testing.T) {
	text := `<span style="color:red;">Raichu</span> vs Raichu`
	out := StyleText(text, "Raichu", "#F7D02C")
	if !strings.HasPrefix(out, `<span style="color:red;">Raichu</span> vs <span`) {
		t.Fatalf("unexpected output %s", out)
	}
	if strings.Count(out, "<span") != 2 {
		t.Fatalf("expected existing span to stay single: %s", out)
	}

	attr := StyleText(`<b>bold</b>`, "bold", "#000000")
	if !strings.HasPrefix(attr, "<b><span") {
		t.Fatalf("expected text inside tags only to be styled: %s", attr)
	}
	if strings.Count(StyleText(attr, "bold", "#000000"), "<span") != 1 {
		t.Fatalf("span attributes must not be rewritten")
	}
}

func TestStyleEntitiesLongestFirst(t *testing.T) {
	text := "Alolan Raichu or Raichu?"
	out := StyleEntities(text,
		Entity{Name: "Raichu", Color: "#F7D02C"},
		Entity{Name: "Alolan Raichu", Color: "#F95587"},
	)
	if !strings.Contains(out, `color:#F95587;">Alolan Raichu</span>`) {
		t.Fatalf("expected full name styled: %s", out)
	}
	if !strings.Contains(out, `color:#F7D02C;">Raichu</span>?`) {
		t.Fatalf("expected short name styled: %s", out)
	}
	if strings.Count(out, "<span") != 2 {
		t.Fatalf("expected no nested spans: %s", out)
	}
}

func TestFormatSequence(t *testing.T) {
	if got := FormatSequence([]int{2, 4, 6, 8}); got != "2, 4, 6, 8" {
		t.Fatalf("unexpected sequence %q", got)
	}
}
