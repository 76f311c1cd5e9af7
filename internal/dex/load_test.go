package dex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pokedex_b.json", `[]`)
	writeFile(t, dir, "pokedex_a.json", `[{"speciesName": "Mewtwo", "types": ["psychic", null], "baseStats": {"atk": 300, "def": 182, "hp": 214}}]`)
	writeFile(t, dir, "moves_a.json", `[{"moveId": "CONFUSION", "name": "Confusion", "type": "psychic"}]`)
	writeFile(t, dir, "notes.txt", `ignored`)

	d, files, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if files.Species != "pokedex_a.json" || files.Moves != "moves_a.json" {
		t.Fatalf("unexpected files: %+v", files)
	}
	if len(d.Species) != 1 || d.Species[0].Name != "Mewtwo" {
		t.Fatalf("unexpected species: %+v", d.Species)
	}
	if d.MoveType("confusion") != "psychic" {
		t.Fatalf("expected psychic move type")
	}
}

func TestFindDataFileMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := FindDataFile(dir, MovesPrefix)
	if !errors.Is(err, ErrNoDataFile) {
		t.Fatalf("expected ErrNoDataFile, got %v", err)
	}
}

func TestLoadRosterDefaultsMissingKeys(t *testing.T) {
	roster, err := LoadRoster(strings.NewReader(`{"Mewtwo": {"fast_attack": {"Confusion": [2]}}}`))
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}
	if len(roster) != 1 || len(roster[0].Entry.ChargeMoves) != 0 {
		t.Fatalf("unexpected roster: %+v", roster)
	}
}

func TestDatasetPath(t *testing.T) {
	if _, err := DatasetPath("/data", "../etc/passwd"); !errors.Is(err, ErrInvalidDatasetName) {
		t.Fatalf("expected ErrInvalidDatasetName, got %v", err)
	}
	if _, err := DatasetPath("/data", ""); !errors.Is(err, ErrInvalidDatasetName) {
		t.Fatalf("expected ErrInvalidDatasetName for empty name, got %v", err)
	}
	path, err := DatasetPath("/data", "great_league.json")
	if err != nil {
		t.Fatalf("DatasetPath failed: %v", err)
	}
	if path != filepath.Join("/data", "great_league.json") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestListDatasetsSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ultra.json", `{}`)
	writeFile(t, dir, "great.json", `{}`)
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	names, err := ListDatasets(dir)
	if err != nil {
		t.Fatalf("ListDatasets failed: %v", err)
	}
	if len(names) != 2 || names[0] != "great.json" || names[1] != "ultra.json" {
		t.Fatalf("unexpected datasets: %v", names)
	}
}
