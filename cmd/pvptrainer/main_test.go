package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pvptrainer/internal/config"
	"github.com/verte-zerg/pvptrainer/internal/cp"
)

func newQuizTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addQuizFlags(cmd)
	return cmd
}

func TestResolveQuizConfigPrecedence(t *testing.T) {
	cmd := newQuizTestCmd(t)
	if err := cmd.Flags().Set("max-cp", "2500"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileMaxCP := 1500
	fileCharged := 0.0
	fileCfg := config.FileConfig{Quiz: config.QuizConfig{
		MaxCP:       &fileMaxCP,
		ChargedMove: &fileCharged,
	}}

	cfg, err := resolveQuizConfig(cmd, fileCfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.MaxCP != 2500 {
		t.Fatalf("flag should win over config, got %d", cfg.MaxCP)
	}
	if cfg.Weights.ChargedMove != 0 {
		t.Fatalf("config should win over default, got %v", cfg.Weights.ChargedMove)
	}
	if cfg.Weights.FastAttack != defaultWeight || cfg.MaxLevel != defaultLevelCap {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestResolveQuizConfigValidates(t *testing.T) {
	cases := map[string]string{
		"max-cp":    "-1",
		"level-cap": "60",
		"attack":    "-0.5",
	}
	for name, value := range cases {
		cmd := newQuizTestCmd(t)
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
		if _, err := resolveQuizConfig(cmd, config.FileConfig{}); err == nil {
			t.Fatalf("expected error for --%s=%s", name, value)
		}
	}
}

func TestStatsFilter(t *testing.T) {
	filter, err := statsFilter("2024-03-01", 10, " Web ")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if filter.Since == nil || filter.Since.Day() != 1 || filter.Last != 10 || filter.Shell != "web" {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if _, err := statsFilter("03/01/2024", 0, ""); err == nil {
		t.Fatalf("expected invalid --since error")
	}
	if _, err := statsFilter("", -1, ""); err == nil {
		t.Fatalf("expected invalid --last error")
	}
	if _, err := statsFilter("", 0, "gui"); err == nil {
		t.Fatalf("expected unknown shell error")
	}
}

func TestSessionMaxCP(t *testing.T) {
	if got := sessionMaxCP(cp.NoCap); got >= 0 {
		t.Fatalf("no cap should map to a negative value, got %d", got)
	}
	if got := sessionMaxCP(2500); got != 2500 {
		t.Fatalf("expected 2500, got %d", got)
	}
}

func TestResolveDataset(t *testing.T) {
	dir := t.TempDir()
	if _, err := resolveDataset(dir, ""); err == nil {
		t.Fatalf("expected error for empty datasets dir")
	}
	for _, name := range []string{"ultra.json", "great.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, err := resolveDataset(dir, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "great.json" {
		t.Fatalf("expected first dataset, got %q", got)
	}
	if got, _ := resolveDataset(dir, "ultra.json"); got != "ultra.json" {
		t.Fatalf("explicit dataset should be kept, got %q", got)
	}
}

func TestLoadDexHint(t *testing.T) {
	_, _, err := loadDex(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "pvptrainer data") {
		t.Fatalf("expected download hint, got %v", err)
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template should load: %v", err)
	}
}
