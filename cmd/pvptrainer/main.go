// Package main provides the CLI entrypoint for pvptrainer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pvptrainer/internal/config"
	"github.com/verte-zerg/pvptrainer/internal/cp"
	"github.com/verte-zerg/pvptrainer/internal/dex"
	"github.com/verte-zerg/pvptrainer/internal/gamemaster"
	"github.com/verte-zerg/pvptrainer/internal/generator"
	"github.com/verte-zerg/pvptrainer/internal/model"
	"github.com/verte-zerg/pvptrainer/internal/stats"
	"github.com/verte-zerg/pvptrainer/internal/statsui"
	"github.com/verte-zerg/pvptrainer/internal/store"
	"github.com/verte-zerg/pvptrainer/internal/tui"
	"github.com/verte-zerg/pvptrainer/internal/web"
)

const (
	defaultMaxCP       = 1500
	defaultLevelCap    = cp.DefaultMaxLevel
	defaultWeight      = 1.0
	defaultWeakTop     = 1
	defaultWeakFactor  = 2.0
	defaultTrendWindow = 10
)

var (
	dataDir     string
	datasetsDir string

	quizDataset    string
	quizMaxCP      int
	quizLevelCap   float64
	quizAttack     float64
	quizFast       float64
	quizCharged    float64
	quizSeed       int64
	quizFocusWeak  bool
	quizWeakTop    int
	quizWeakFactor float64

	statsSince string
	statsLast  int
	statsShell string
	statsPlain bool
	statsTrend int

	dataForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pvptrainer",
		Short:         "PvP trivia trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultDataDir(), "directory with species and move tables")
	rootCmd.PersistentFlags().StringVar(&datasetsDir, "datasets-dir", config.DefaultDatasetsDir(), "directory with roster datasets")
	addQuizFlags(rootCmd)
	rootCmd.Flags().StringVar(&quizDataset, "dataset", "", "roster dataset file name (default: first in datasets dir)")
	rootCmd.Flags().BoolVar(&quizFocusWeak, "focus-weak", false, "bias questions toward weak categories")
	rootCmd.Flags().IntVar(&quizWeakTop, "weak-top", defaultWeakTop, "number of weak categories to focus on")
	rootCmd.Flags().Float64Var(&quizWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak categories")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDatasetsCmd())
	rootCmd.AddCommand(newDataCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// addQuizFlags registers the question settings shared by the TUI and the server.
func addQuizFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&quizMaxCP, "max-cp", defaultMaxCP, "CP cap for attack comparisons (0 = no cap)")
	cmd.Flags().Float64Var(&quizLevelCap, "level-cap", defaultLevelCap, "highest level considered for CP")
	cmd.Flags().Float64Var(&quizAttack, "attack", defaultWeight, "weight of attack comparison questions")
	cmd.Flags().Float64Var(&quizFast, "fast", defaultWeight, "weight of fast attack questions")
	cmd.Flags().Float64Var(&quizCharged, "charged", defaultWeight, "weight of charged move questions")
	cmd.Flags().Int64Var(&quizSeed, "seed", 0, "random seed (0 = time based)")
}

func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

// resolveQuizConfig merges flags over the config file and validates the result.
func resolveQuizConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.QuizConfig, error) {
	q := fileCfg.Quiz
	applyStringConfig(cmd, "dataset", &quizDataset, q.Dataset)
	applyIntConfig(cmd, "max-cp", &quizMaxCP, q.MaxCP)
	applyFloatConfig(cmd, "level-cap", &quizLevelCap, q.LevelCap)
	applyFloatConfig(cmd, "attack", &quizAttack, q.AttackComparison)
	applyFloatConfig(cmd, "fast", &quizFast, q.FastAttack)
	applyFloatConfig(cmd, "charged", &quizCharged, q.ChargedMove)
	applyInt64Config(cmd, "seed", &quizSeed, q.Seed)

	cfg := model.QuizConfig{
		Dataset:  strings.TrimSpace(quizDataset),
		MaxCP:    quizMaxCP,
		MaxLevel: quizLevelCap,
		Weights: model.Weights{
			AttackComparison: quizAttack,
			FastAttack:       quizFast,
			ChargedMove:      quizCharged,
		},
		Seed: quizSeed,
	}
	if err := validateQuizConfig(cfg); err != nil {
		return model.QuizConfig{}, err
	}
	return cfg, nil
}

func resolveDirs(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "data-dir", &dataDir, fileCfg.Data.Dir)
	applyStringConfig(cmd, "datasets-dir", &datasetsDir, fileCfg.Data.DatasetsDir)
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	resolveDirs(cmd, fileCfg)
	cfg, err := resolveQuizConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	applyBoolConfig(cmd, "focus-weak", &quizFocusWeak, fileCfg.Quiz.FocusWeak)
	applyIntConfig(cmd, "weak-top", &quizWeakTop, fileCfg.Quiz.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &quizWeakFactor, fileCfg.Quiz.WeakFactor)
	if quizWeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if quizWeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}

	d, _, err := loadDex(dataDir)
	if err != nil {
		return err
	}
	dataset, err := resolveDataset(datasetsDir, cfg.Dataset)
	if err != nil {
		return err
	}
	cfg.Dataset = dataset
	rosterPath, err := dex.DatasetPath(datasetsDir, dataset)
	if err != nil {
		return err
	}
	roster, err := dex.LoadRosterFile(rosterPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", dataset, err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if quizFocusWeak {
		aggs, err := st.ListCategoryAggregates(context.Background(), model.HistoryFilter{})
		if err != nil {
			logErrf("failed to load weak categories: %v\n", err)
		} else if len(aggs) == 0 {
			logErrln("no stats available for weak-category focus yet; using configured weights")
		} else {
			cfg.Weights = stats.FocusWeights(cfg.Weights, aggs, quizWeakTop, quizWeakFactor)
		}
	}

	gen := newGenerator(cfg)
	quiz := tui.NewModel(cfg, st, gen, d, roster)
	program := tea.NewProgram(quiz, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newGenerator(cfg model.QuizConfig) *generator.Generator {
	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewWithSeed(cfg.Seed)
	}
	gen.SetMaxLevel(cfg.MaxLevel)
	return gen
}

func loadDex(dir string) (dex.Dex, dex.Files, error) {
	d, files, err := dex.LoadDir(dir)
	if err == nil {
		return d, files, nil
	}
	if errors.Is(err, dex.ErrNoDataFile) || errors.Is(err, os.ErrNotExist) {
		lines := []string{
			fmt.Sprintf("failed to load species and move tables: %v", err),
			fmt.Sprintf("expected %s*.json and %s*.json in: %s", dex.SpeciesPrefix, dex.MovesPrefix, dir),
			"Download: pvptrainer data",
		}
		return dex.Dex{}, dex.Files{}, fmt.Errorf("%s", strings.Join(lines, "\n"))
	}
	return dex.Dex{}, dex.Files{}, fmt.Errorf("failed to load data tables: %w", err)
}

// resolveDataset returns name, or the first dataset in dir when name is empty.
func resolveDataset(dir, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	names, err := dex.ListDatasets(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to list datasets: %w", err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no datasets found in %s (add a roster JSON file or pass --dataset)", dir)
	}
	return names[0], nil
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List roster datasets",
		Args:  cobra.NoArgs,
		RunE:  runDatasetsCmd,
	}
}

func runDatasetsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	resolveDirs(cmd, fileCfg)
	names, err := dex.ListDatasets(datasetsDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read datasets directory: %w", err)
	}
	if len(names) == 0 {
		logErrf("No datasets found. Add roster JSON files to %s\n", datasetsDir)
		return fmt.Errorf("no datasets found")
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Download species and move tables",
		Args:  cobra.NoArgs,
		RunE:  runDataCmd,
	}
	cmd.Flags().BoolVar(&dataForce, "force", false, "replace existing tables")
	return cmd
}

func runDataCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	resolveDirs(cmd, fileCfg)

	logErrln("Fetching gamemaster tables...")
	result, err := gamemaster.Download(cmd.Context(), dataDir, gamemaster.Options{Force: dataForce})
	if err != nil {
		return fmt.Errorf("failed to download tables: %w", err)
	}
	if result.Cached {
		logErrf("Using existing %s and %s (use --force to refresh)\n", result.Species, result.Moves)
		return nil
	}
	logErrf("Wrote %s\n", filepath.Join(dataDir, result.Species))
	logErrf("Wrote %s\n", filepath.Join(dataDir, result.Moves))
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show answer stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N answers")
	cmd.Flags().StringVar(&statsShell, "shell", "", "shell filter (tui or web)")
	cmd.Flags().IntVar(&statsTrend, "trend-window", defaultTrendWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := statsFilter(statsSince, statsLast, statsShell)
	if err != nil {
		return err
	}
	if statsTrend < 1 {
		return fmt.Errorf("--trend-window must be >= 1")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, filter)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		if err := report.Render(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	cfg := model.StatsConfig{
		Shell:       filter.Shell,
		Since:       filter.Since,
		Last:        filter.Last,
		TrendWindow: statsTrend,
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsFilter(since string, last int, shell string) (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if last < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	filter.Last = last
	switch shell = strings.TrimSpace(strings.ToLower(shell)); shell {
	case "", tui.ShellName, web.ShellName:
		filter.Shell = shell
	default:
		return filter, fmt.Errorf("unknown shell %q (expected %s or %s)", shell, tui.ShellName, web.ShellName)
	}
	return filter, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pvptrainer configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# dataset = "great_league.json"  # Roster dataset file name
# max-cp = %d                  # CP cap for attack comparisons (0 = no cap)
# level-cap = %.1f              # Highest level considered for CP
# attack-comparison = %.1f       # Category weights
# fast-attack = %.1f
# charged-move = %.1f
# seed = 0                       # Random seed (0 = time based)
# focus-weak = false             # Bias questions toward weak categories
# weak-top = %d
# weak-factor = %.1f

[data]
# dir = %q
# datasets-dir = %q

[server]
# addr = %q
# redis-addr = ""                # Empty keeps sessions in memory
# session-ttl-minutes = %d
`,
		defaultMaxCP,
		defaultLevelCap,
		defaultWeight,
		defaultWeight,
		defaultWeight,
		defaultWeakTop,
		defaultWeakFactor,
		config.DefaultDataDir(),
		config.DefaultDatasetsDir(),
		defaultAddr,
		defaultSessionTTL,
	)
}

func validateQuizConfig(cfg model.QuizConfig) error {
	if cfg.MaxCP < 0 {
		return fmt.Errorf("--max-cp must be >= 0")
	}
	if cfg.MaxLevel < cp.MinLevel || cfg.MaxLevel > cp.MaxLevel {
		return fmt.Errorf("--level-cap must be between %.0f and %.0f", cp.MinLevel, cp.MaxLevel)
	}
	if cfg.Weights.AttackComparison < 0 {
		return fmt.Errorf("--attack must be >= 0")
	}
	if cfg.Weights.FastAttack < 0 {
		return fmt.Errorf("--fast must be >= 0")
	}
	if cfg.Weights.ChargedMove < 0 {
		return fmt.Errorf("--charged must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
