package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Quiz.MaxCP != nil || cfg.Server.Addr != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[quiz]
dataset = "great.json"
max-cp = 2500
level-cap = 50
charged-move = 0
focus-weak = true
weak-factor = 3.5

[data]
dir = "/tmp/gm"

[server]
addr = ":9000"
session-ttl-minutes = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Dataset == nil || *cfg.Quiz.Dataset != "great.json" {
		t.Fatalf("unexpected dataset: %v", cfg.Quiz.Dataset)
	}
	if cfg.Quiz.MaxCP == nil || *cfg.Quiz.MaxCP != 2500 {
		t.Fatalf("unexpected max-cp: %v", cfg.Quiz.MaxCP)
	}
	if cfg.Quiz.LevelCap == nil || *cfg.Quiz.LevelCap != 50 {
		t.Fatalf("unexpected level-cap: %v", cfg.Quiz.LevelCap)
	}
	if cfg.Quiz.ChargedMove == nil || *cfg.Quiz.ChargedMove != 0 {
		t.Fatalf("explicit zero weight should be set: %v", cfg.Quiz.ChargedMove)
	}
	if cfg.Quiz.FastAttack != nil {
		t.Fatalf("unset weight should stay nil")
	}
	if cfg.Quiz.FocusWeak == nil || !*cfg.Quiz.FocusWeak {
		t.Fatalf("unexpected focus-weak: %v", cfg.Quiz.FocusWeak)
	}
	if cfg.Quiz.WeakFactor == nil || *cfg.Quiz.WeakFactor != 3.5 {
		t.Fatalf("unexpected weak-factor: %v", cfg.Quiz.WeakFactor)
	}
	if cfg.Data.Dir == nil || *cfg.Data.Dir != "/tmp/gm" {
		t.Fatalf("unexpected data dir: %v", cfg.Data.Dir)
	}
	if cfg.Server.SessionTTLMinutes == nil || *cfg.Server.SessionTTLMinutes != 30 {
		t.Fatalf("unexpected ttl: %v", cfg.Server.SessionTTLMinutes)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quiz]\nmaxcp = 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "quiz.maxcp") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	cfgHome := t.TempDir()
	dataHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_DATA_HOME", dataHome)

	if got, want := DefaultConfigPath(), filepath.Join(cfgHome, "pvptrainer", "config.toml"); got != want {
		t.Fatalf("config path: got %q want %q", got, want)
	}
	if got, want := DefaultDatasetsDir(), filepath.Join(cfgHome, "pvptrainer", "datasets"); got != want {
		t.Fatalf("datasets dir: got %q want %q", got, want)
	}
	if got, want := DefaultDataDir(), filepath.Join(dataHome, "pvptrainer", "data"); got != want {
		t.Fatalf("data dir: got %q want %q", got, want)
	}
	if got, want := DefaultDBPath(), filepath.Join(dataHome, "pvptrainer", "pvptrainer.db"); got != want {
		t.Fatalf("db path: got %q want %q", got, want)
	}
}
