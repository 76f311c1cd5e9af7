package dex

import (
	"testing"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

func species(name, primary string, atk, def, hp int) model.Species {
	return model.Species{
		Name:      name,
		Types:     [2]string{primary, ""},
		BaseStats: model.BaseStats{Attack: atk, Defense: def, Stamina: hp},
	}
}

func TestResolveSpeciesShadowAndForm(t *testing.T) {
	table := []model.Species{
		species("Raichu", "electric", 193, 151, 155),
		species("Alolan Raichu", "electric", 201, 154, 155),
	}
	sp, ok := ResolveSpecies("Shadow Alolan Raichu", table)
	if !ok {
		t.Fatalf("expected match for Shadow Alolan Raichu")
	}
	if sp.Name != "Alolan Raichu" {
		t.Fatalf("expected Alolan Raichu, got %q", sp.Name)
	}

	sp, ok = ResolveSpecies("  Raichu Shadow ", table)
	if !ok || sp.Name != "Raichu" {
		t.Fatalf("expected plain Raichu for shadow name, got %q", sp.Name)
	}
}

func TestResolveSpeciesTableOrder(t *testing.T) {
	formFirst := []model.Species{
		species("Alolan Raichu", "electric", 201, 154, 155),
		species("Raichu", "electric", 193, 151, 155),
	}
	sp, ok := ResolveSpecies("Raichu", formFirst)
	if !ok || sp.Name != "Alolan Raichu" {
		t.Fatalf("expected first substring match Alolan Raichu, got %q (ok=%v)", sp.Name, ok)
	}

	plainFirst := []model.Species{formFirst[1], formFirst[0]}
	sp, ok = ResolveSpecies("Raichu", plainFirst)
	if !ok || sp.Name != "Raichu" {
		t.Fatalf("expected Raichu, got %q (ok=%v)", sp.Name, ok)
	}
}

func TestResolveSpeciesMegaRequiresTag(t *testing.T) {
	table := []model.Species{
		species("Venusaur", "grass", 198, 189, 190),
		species("Venusaur (Mega)", "grass", 241, 246, 190),
	}
	sp, ok := ResolveSpecies("Mega Venusaur", table)
	if !ok || sp.Name != "Venusaur (Mega)" {
		t.Fatalf("expected Venusaur (Mega), got %q (ok=%v)", sp.Name, ok)
	}
}

func TestResolveSpeciesNotFound(t *testing.T) {
	table := []model.Species{species("Mewtwo", "psychic", 300, 182, 214)}
	if _, ok := ResolveSpecies("Missingno", table); ok {
		t.Fatalf("expected no match")
	}
	types, stats := SpeciesTypeAndStats("Missingno", table)
	if types != [2]string{} {
		t.Fatalf("expected absent types, got %v", types)
	}
	if stats != (model.BaseStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestResolveMove(t *testing.T) {
	table := []model.Move{
		{Name: "Confusion", Type: "Psychic"},
		{Name: "confusion", Type: "dark"},
		{Name: "Psystrike", Type: "psychic"},
	}
	typ, ok := ResolveMove("CONFUSION", table)
	if !ok || typ != "psychic" {
		t.Fatalf("expected psychic from first match, got %q (ok=%v)", typ, ok)
	}
	if _, ok := ResolveMove("Psy", table); ok {
		t.Fatalf("expected exact matching only")
	}
	d := Dex{Moves: table}
	if d.MoveType("Unknown") != "" {
		t.Fatalf("expected empty type for unknown move")
	}
}
