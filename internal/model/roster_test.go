package model

import (
	"encoding/json"
	"testing"
)

const rosterFixture = `{
	"Zygarde": {"fast_attack": {"Dragon Tail": [3, 9]}, "charge_moves": {"Crunch": [4, 8, 11, 15], "Bulldoze": [5, 9, 14, 18]}},
	"Azumarill": {"fast_attack": {"Bubble": [3]}, "charge_moves": {"Ice Beam": [7, 13, 20, 26]}},
	"Medicham": {"fast_attack": {"Counter": [2], "Psycho Cut": [1]}, "charge_moves": {}}
}`

func TestRosterKeepsFileOrder(t *testing.T) {
	var roster Roster
	if err := json.Unmarshal([]byte(rosterFixture), &roster); err != nil {
		t.Fatalf("unmarshal roster: %v", err)
	}
	names := roster.Names()
	expected := []string{"Zygarde", "Azumarill", "Medicham"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Fatalf("expected %q at %d, got %q", name, i, names[i])
		}
	}
	entry, ok := roster.Lookup("Zygarde")
	if !ok {
		t.Fatalf("expected Zygarde in roster")
	}
	if entry.ChargeMoves[0].Name != "Crunch" || entry.ChargeMoves[1].Name != "Bulldoze" {
		t.Fatalf("unexpected charge move order: %+v", entry.ChargeMoves)
	}
	fast, ok := roster[2].Entry.FastAttack()
	if !ok || fast.Name != "Counter" || fast.Turns[0] != 2 {
		t.Fatalf("expected first fast attack Counter [2], got %+v", fast)
	}
}

func TestRosterRoundTripPreservesOrder(t *testing.T) {
	var roster Roster
	if err := json.Unmarshal([]byte(rosterFixture), &roster); err != nil {
		t.Fatalf("unmarshal roster: %v", err)
	}
	data, err := json.Marshal(roster)
	if err != nil {
		t.Fatalf("marshal roster: %v", err)
	}
	var again Roster
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("unmarshal encoded roster: %v", err)
	}
	if again[0].Name != "Zygarde" || again[2].Name != "Medicham" {
		t.Fatalf("order lost after round trip: %v", again.Names())
	}
	if got := again[0].Entry.ChargeMoves[1].Turns; len(got) != 4 || got[3] != 18 {
		t.Fatalf("unexpected turns after round trip: %v", got)
	}
}

func TestRosterEntryMissingKeys(t *testing.T) {
	var roster Roster
	if err := json.Unmarshal([]byte(`{"Ditto": {}}`), &roster); err != nil {
		t.Fatalf("unmarshal roster: %v", err)
	}
	if _, ok := roster[0].Entry.FastAttack(); ok {
		t.Fatalf("expected no fast attack for empty entry")
	}
	if len(roster[0].Entry.ChargeMoves) != 0 {
		t.Fatalf("expected no charge moves for empty entry")
	}
}

func TestSpeciesNoneType(t *testing.T) {
	var sp Species
	data := `{"speciesName": "Mewtwo", "types": ["psychic", "none"], "baseStats": {"atk": 300, "def": 182, "hp": 214}}`
	if err := json.Unmarshal([]byte(data), &sp); err != nil {
		t.Fatalf("unmarshal species: %v", err)
	}
	if sp.PrimaryType() != "psychic" || sp.Types[1] != "" {
		t.Fatalf("unexpected types: %v", sp.Types)
	}
	if sp.BaseStats.Attack != 300 || sp.BaseStats.Stamina != 214 {
		t.Fatalf("unexpected base stats: %+v", sp.BaseStats)
	}
}
