package dex

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

// File name prefixes of the static data tables.
const (
	SpeciesPrefix = "pokedex_"
	MovesPrefix   = "moves_"
)

// ErrNoDataFile is returned when a data directory has no file with the wanted prefix.
var ErrNoDataFile = errors.New("no data file found")

// ErrInvalidDatasetName is returned for dataset names that are not plain file names.
var ErrInvalidDatasetName = errors.New("invalid dataset name")

// LoadSpecies decodes a species table.
func LoadSpecies(r io.Reader) ([]model.Species, error) {
	var table []model.Species
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode species table: %w", err)
	}
	return table, nil
}

// LoadMoves decodes a move table.
func LoadMoves(r io.Reader) ([]model.Move, error) {
	var table []model.Move
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode move table: %w", err)
	}
	return table, nil
}

// LoadRoster decodes a roster dataset.
func LoadRoster(r io.Reader) (model.Roster, error) {
	var roster model.Roster
	if err := json.NewDecoder(r).Decode(&roster); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	return roster, nil
}

// LoadSpeciesFile reads a species table from path.
func LoadSpeciesFile(path string) ([]model.Species, error) {
	var table []model.Species
	err := withFile(path, func(r io.Reader) error {
		var err error
		table, err = LoadSpecies(r)
		return err
	})
	return table, err
}

// LoadMovesFile reads a move table from path.
func LoadMovesFile(path string) ([]model.Move, error) {
	var table []model.Move
	err := withFile(path, func(r io.Reader) error {
		var err error
		table, err = LoadMoves(r)
		return err
	})
	return table, err
}

// LoadRosterFile reads a roster dataset from path.
func LoadRosterFile(path string) (model.Roster, error) {
	var roster model.Roster
	err := withFile(path, func(r io.Reader) error {
		var err error
		roster, err = LoadRoster(r)
		return err
	})
	return roster, err
}

// LoadDir loads the first species and move tables found in dir.
func LoadDir(dir string) (Dex, Files, error) {
	speciesName, err := FindDataFile(dir, SpeciesPrefix)
	if err != nil {
		return Dex{}, Files{}, err
	}
	movesName, err := FindDataFile(dir, MovesPrefix)
	if err != nil {
		return Dex{}, Files{}, err
	}
	species, err := LoadSpeciesFile(filepath.Join(dir, speciesName))
	if err != nil {
		return Dex{}, Files{}, err
	}
	moves, err := LoadMovesFile(filepath.Join(dir, movesName))
	if err != nil {
		return Dex{}, Files{}, err
	}
	return Dex{Species: species, Moves: moves}, Files{Species: speciesName, Moves: movesName}, nil
}

// Files names the data files a Dex was loaded from.
type Files struct {
	Species string
	Moves   string
}

// FindDataFile returns the lexically first JSON file in dir starting with prefix.
func FindDataFile(dir, prefix string) (string, error) {
	names, err := jsonFiles(dir)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s*.json in %s", ErrNoDataFile, prefix, dir)
}

// ListDatasets returns the sorted roster dataset file names in dir.
func ListDatasets(dir string) ([]string, error) {
	return jsonFiles(dir)
}

// DatasetPath joins a dataset name onto dir, rejecting anything but a plain file name.
func DatasetPath(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDatasetName, name)
	}
	return filepath.Join(dir, name), nil
}

func jsonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func withFile(path string, fn func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only data file.
			_ = cerr
		}
	}()
	return fn(file)
}
