// Package dex resolves species and moves against the static data tables.
package dex

import (
	"strings"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

// Forms are the name modifiers that select a regional or alternate variant.
var Forms = []string{"alolan", "galarian", "hisuan", "mega"}

// Dex bundles the read-only species and move tables.
type Dex struct {
	Species []model.Species
	Moves   []model.Move
}

// ResolveSpecies finds the first table entry matching name. Matching is a
// permissive substring search that ignores a "shadow" modifier and, when a form
// tag is present, requires the entry to carry the same tag.
func ResolveSpecies(name string, table []model.Species) (model.Species, bool) {
	normalized := strings.TrimSpace(strings.ToLower(name))
	form := detectForm(normalized)
	clean := strings.TrimSpace(strings.ReplaceAll(normalized, "shadow", ""))
	if form != "" {
		clean = strings.TrimSpace(strings.ReplaceAll(clean, form, ""))
	}

	for _, sp := range table {
		entry := strings.ToLower(sp.Name)
		if form != "" {
			if strings.Contains(entry, form) && strings.Contains(entry, clean) {
				return sp, true
			}
			continue
		}
		if clean == entry || strings.Contains(entry, clean) {
			return sp, true
		}
	}
	return model.Species{}, false
}

// SpeciesTypeAndStats resolves name and falls back to absent types and zero stats.
func SpeciesTypeAndStats(name string, table []model.Species) ([2]string, model.BaseStats) {
	sp, ok := ResolveSpecies(name, table)
	if !ok {
		return [2]string{}, model.BaseStats{}
	}
	return sp.Types, sp.BaseStats
}

// ResolveMove returns the lowercased type of the first move whose name equals
// name case-insensitively.
func ResolveMove(name string, table []model.Move) (string, bool) {
	for _, mv := range table {
		if strings.EqualFold(mv.Name, name) {
			return strings.ToLower(mv.Type), true
		}
	}
	return "", false
}

// MoveType is ResolveMove without the found flag.
func (d Dex) MoveType(name string) string {
	typ, _ := ResolveMove(name, d.Moves)
	return typ
}

// PrimaryType returns the first type of the species resolved from name, or "".
func (d Dex) PrimaryType(name string) string {
	types, _ := SpeciesTypeAndStats(name, d.Species)
	return types[0]
}

func detectForm(name string) string {
	for _, f := range Forms {
		if strings.Contains(name, f) {
			return f
		}
	}
	return ""
}
