// Package main provides the CLI entrypoint for snacktap.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/snacktap/internal/config"
	"github.com/verte-zerg/snacktap/internal/generator"
	"github.com/verte-zerg/snacktap/internal/model"
	"github.com/verte-zerg/snacktap/internal/score"
	"github.com/verte-zerg/snacktap/internal/statsui"
	"github.com/verte-zerg/snacktap/internal/store"
	"github.com/verte-zerg/snacktap/internal/tui"
)

const (
	defaultWidth       = 16
	defaultHeight      = 14
	defaultSpawnEvery  = 700 * time.Millisecond
	defaultFallEvery   = 400 * time.Millisecond
	defaultCurveWindow = 5
)

var (
	playPlayer     string
	playWidth      int
	playHeight     int
	playSpawnEvery time.Duration
	playFallEvery  time.Duration

	rulesComboWindow int64
	rulesComboCap    int
	rulesComboBonus  int
	rulesDefault     int

	statsPlayer      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	verbose bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "snacktap",
		Short:         "Eat falling snacks, build combos, collect happiness points",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addPlayFlags(rootCmd)
	addRulesFlags(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newItemsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&playPlayer, "player", defaultPlayer(), "player name recorded with sessions")
	cmd.Flags().IntVar(&playWidth, "width", defaultWidth, "board width in cells")
	cmd.Flags().IntVar(&playHeight, "height", defaultHeight, "board height in cells")
	cmd.Flags().DurationVar(&playSpawnEvery, "spawn-every", defaultSpawnEvery, "interval between new snacks")
	cmd.Flags().DurationVar(&playFallEvery, "fall-every", defaultFallEvery, "interval between falling steps")
}

func addRulesFlags(cmd *cobra.Command) {
	rules := score.DefaultRules()
	cmd.Flags().Int64Var(&rulesComboWindow, "combo-window", rules.ComboWindowMs, "max gap in ms between eats to keep a combo")
	cmd.Flags().IntVar(&rulesComboCap, "combo-cap", rules.ComboCap, "max combo steps that earn a bonus")
	cmd.Flags().IntVar(&rulesComboBonus, "combo-bonus", rules.ComboBonus, "bonus points per combo step")
	cmd.Flags().IntVar(&rulesDefault, "default-value", score.DefaultBaseValue, "base value for snacks missing from the catalog")
}

func defaultPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}

// gameSetup is everything needed to start a game, resolved from flags and config.
type gameSetup struct {
	play    model.Config
	rules   score.Rules
	catalog *score.Catalog
	file    config.FileConfig
}

func loadGameSetup(cmd *cobra.Command) (gameSetup, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return gameSetup{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "player", &playPlayer, fileCfg.Play.Player)
	applyIntConfig(cmd, "width", &playWidth, fileCfg.Play.Width)
	applyIntConfig(cmd, "height", &playHeight, fileCfg.Play.Height)
	if err := applyDurationConfig(cmd, "spawn-every", &playSpawnEvery, fileCfg.Play.SpawnEvery); err != nil {
		return gameSetup{}, err
	}
	if err := applyDurationConfig(cmd, "fall-every", &playFallEvery, fileCfg.Play.FallEvery); err != nil {
		return gameSetup{}, err
	}
	applyInt64Config(cmd, "combo-window", &rulesComboWindow, fileCfg.Rules.ComboWindowMs)
	applyIntConfig(cmd, "combo-cap", &rulesComboCap, fileCfg.Rules.ComboCap)
	applyIntConfig(cmd, "combo-bonus", &rulesComboBonus, fileCfg.Rules.ComboBonus)
	applyIntConfig(cmd, "default-value", &rulesDefault, fileCfg.Rules.DefaultValue)

	play := model.Config{
		Player:     playPlayer,
		Width:      playWidth,
		Height:     playHeight,
		SpawnEvery: playSpawnEvery,
		FallEvery:  playFallEvery,
	}
	rulesCfg := model.RulesConfig{
		ComboWindowMs: rulesComboWindow,
		ComboCap:      rulesComboCap,
		ComboBonus:    rulesComboBonus,
		DefaultValue:  rulesDefault,
	}
	if err := validateConfig(play, rulesCfg); err != nil {
		return gameSetup{}, err
	}

	catalog, err := config.LoadCatalog(config.DefaultCatalogPath(), rulesCfg.DefaultValue)
	if err != nil {
		return gameSetup{}, err
	}
	return gameSetup{
		play: play,
		rules: score.Rules{
			ComboWindowMs: rulesCfg.ComboWindowMs,
			ComboCap:      rulesCfg.ComboCap,
			ComboBonus:    rulesCfg.ComboBonus,
		},
		catalog: catalog,
		file:    fileCfg,
	}, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	setup, err := loadGameSetup(cmd)
	if err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("failed to close db", "err", cerr)
		}
	}()

	engine := score.New(setup.catalog, setup.rules)
	board := generator.New(setup.play.Width, setup.play.Height, setup.catalog.IDs())
	game := tui.NewModel(setup.play, engine, st, board)
	defer game.Close()

	program := tea.NewProgram(game, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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
		log.Info("created config", "path", path)
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

func newItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List snacks and their base values",
		Args:  cobra.NoArgs,
		RunE:  runItemsCmd,
	}
}

func runItemsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fallback := score.DefaultBaseValue
	if fileCfg.Rules.DefaultValue != nil {
		fallback = *fileCfg.Rules.DefaultValue
	}
	catalog, err := config.LoadCatalog(config.DefaultCatalogPath(), fallback)
	if err != nil {
		return err
	}
	return writeCatalog(cmd.OutOrStdout(), catalog)
}

func writeCatalog(w io.Writer, catalog *score.Catalog) error {
	for _, it := range catalog.Items() {
		if _, err := fmt.Fprintf(w, "%s %3d\n", runewidth.FillRight(it.ID, 4), it.Value); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "%s %3d\n", runewidth.FillRight("*", 4), catalog.Default()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPlayer, "player", "", "player filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Player:      statsPlayer,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("failed to close db", "err", cerr)
		}
	}()

	if statsPlain {
		return writePlainReport(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
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

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	rules := score.DefaultRules()
	return fmt.Sprintf(`# snacktap configuration
# Uncomment a value to enable it. CLI flags override config values.
# Custom snacks go in catalog.yaml next to this file.

[play]
# player = "you"          # Name recorded with sessions
# width = %d              # Board width in cells
# height = %d             # Board height in cells
# spawn-every = %q     # Interval between new snacks
# fall-every = %q      # Interval between falling steps

[rules]
# combo-window-ms = %d  # Max gap between eats to keep a combo
# combo-cap = %d           # Max combo steps that earn a bonus
# combo-bonus = %d         # Bonus points per combo step
# default-value = %d      # Base value for snacks missing from the catalog

[serve]
# host = %q
# port = %q
# host-key = %q
`,
		defaultWidth,
		defaultHeight,
		defaultSpawnEvery.String(),
		defaultFallEvery.String(),
		rules.ComboWindowMs,
		rules.ComboCap,
		rules.ComboBonus,
		score.DefaultBaseValue,
		defaultServeHost,
		defaultServePort,
		config.DefaultHostKeyPath(),
	)
}

func validateConfig(play model.Config, rules model.RulesConfig) error {
	if strings.TrimSpace(play.Player) == "" {
		return fmt.Errorf("--player must not be empty")
	}
	if play.Width <= 0 {
		return fmt.Errorf("--width must be > 0")
	}
	if play.Height <= 0 {
		return fmt.Errorf("--height must be > 0")
	}
	if play.SpawnEvery <= 0 {
		return fmt.Errorf("--spawn-every must be > 0")
	}
	if play.FallEvery <= 0 {
		return fmt.Errorf("--fall-every must be > 0")
	}
	if rules.ComboWindowMs < 0 {
		return fmt.Errorf("--combo-window must be >= 0")
	}
	if rules.ComboCap < 0 {
		return fmt.Errorf("--combo-cap must be >= 0")
	}
	if rules.ComboBonus < 0 {
		return fmt.Errorf("--combo-bonus must be >= 0")
	}
	if rules.DefaultValue < 0 {
		return fmt.Errorf("--default-value must be >= 0")
	}
	return nil
}
