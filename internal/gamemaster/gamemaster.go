// Package gamemaster downloads the species and move tables.
package gamemaster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/pvptrainer/internal/dex"
)

// Default sources of the species and move tables.
const (
	DefaultSpeciesURL = "https://raw.githubusercontent.com/pvpoke/pvpoke/master/src/data/gamemaster/pokemon.json"
	DefaultMovesURL   = "https://raw.githubusercontent.com/pvpoke/pvpoke/master/src/data/gamemaster/moves.json"
)

const (
	stampLayout  = "20060102"
	maxTableSize = 64 << 20
)

// Options configures a download.
type Options struct {
	SpeciesURL string
	MovesURL   string
	Force      bool
	Now        func() time.Time
}

// Result names the table files present after a download.
type Result struct {
	Species string
	Moves   string
	Cached  bool
}

// Download fetches both tables into outDir. Existing tables are kept unless
// opts.Force is set, in which case older tables are replaced.
func Download(ctx context.Context, outDir string, opts Options) (Result, error) {
	if outDir == "" {
		return Result{}, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create data dir: %w", err)
	}
	opts = withDefaults(opts)

	if !opts.Force {
		species, serr := dex.FindDataFile(outDir, dex.SpeciesPrefix)
		moves, merr := dex.FindDataFile(outDir, dex.MovesPrefix)
		if serr == nil && merr == nil {
			return Result{Species: species, Moves: moves, Cached: true}, nil
		}
	}

	speciesData, err := fetchTable(ctx, opts.SpeciesURL)
	if err != nil {
		return Result{}, fmt.Errorf("species table: %w", err)
	}
	movesData, err := fetchTable(ctx, opts.MovesURL)
	if err != nil {
		return Result{}, fmt.Errorf("move table: %w", err)
	}

	stamp := opts.Now().UTC().Format(stampLayout)
	result := Result{
		Species: dex.SpeciesPrefix + stamp + ".json",
		Moves:   dex.MovesPrefix + stamp + ".json",
	}
	if err := writeFileAtomic(filepath.Join(outDir, result.Species), speciesData); err != nil {
		return Result{}, err
	}
	if err := writeFileAtomic(filepath.Join(outDir, result.Moves), movesData); err != nil {
		return Result{}, err
	}
	if err := removeStale(outDir, dex.SpeciesPrefix, result.Species); err != nil {
		return Result{}, err
	}
	if err := removeStale(outDir, dex.MovesPrefix, result.Moves); err != nil {
		return Result{}, err
	}
	return result, nil
}

func withDefaults(opts Options) Options {
	if opts.SpeciesURL == "" {
		opts.SpeciesURL = DefaultSpeciesURL
	}
	if opts.MovesURL == "" {
		opts.MovesURL = DefaultMovesURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func fetchTable(ctx context.Context, url string) ([]byte, error) {
	resp, err := httpRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTableSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > maxTableSize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxTableSize)
	}
	if err := validateTable(data); err != nil {
		return nil, err
	}
	return data, nil
}

func validateTable(data []byte) error {
	var entries []json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode table: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("table is empty")
	}
	return nil
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".gamemaster-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}

// removeStale deletes tables with prefix other than keep, so lookups find the
// fresh download.
func removeStale(dir, prefix, keep string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read data dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == keep || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to remove stale %s: %w", name, err)
		}
	}
	return nil
}
