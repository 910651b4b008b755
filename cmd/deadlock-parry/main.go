// Package main provides the CLI entrypoint for deadlock-parry.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bohdon/deadlock-parry/internal/audio"
	"github.com/bohdon/deadlock-parry/internal/config"
	"github.com/bohdon/deadlock-parry/internal/input"
	"github.com/bohdon/deadlock-parry/internal/judge"
	"github.com/bohdon/deadlock-parry/internal/logging"
	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/schedule"
	"github.com/bohdon/deadlock-parry/internal/session"
	"github.com/bohdon/deadlock-parry/internal/stats"
	"github.com/bohdon/deadlock-parry/internal/statsui"
	"github.com/bohdon/deadlock-parry/internal/store"
	"github.com/bohdon/deadlock-parry/internal/tui"
)

const (
	defaultDelayMin    = 15
	defaultDelayMax    = 240
	defaultParryWindow = 600
	defaultParryKey    = "f"
	defaultCurveWindow = 20
)

var (
	practiceDelayMin     int
	practiceDelayMax     int
	practiceParryWindow  int
	practiceParryKey     string
	practiceEndOnDeath   bool
	practiceSilent       bool
	practiceSoundCommand string
	practiceSoundDir     string

	rootConfig    string
	rootDBPath    string
	rootLogFile   string
	rootLogLevel  string
	rootLogFormat string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "deadlock-parry",
		Short:         "Parry reflex trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVarP(&practiceDelayMin, "delay-min", "m", defaultDelayMin, "minimum delay before a random punch, in seconds")
	rootCmd.Flags().IntVarP(&practiceDelayMax, "delay-max", "x", defaultDelayMax, "maximum delay before a random punch, in seconds")
	rootCmd.Flags().IntVarP(&practiceParryWindow, "parry-window", "w", defaultParryWindow, "max duration for parrying before being hit, in milliseconds")
	rootCmd.Flags().StringVarP(&practiceParryKey, "parry-key", "k", defaultParryKey, "key binding for parry")
	rootCmd.Flags().BoolVar(&practiceEndOnDeath, "end-on-death", false, "stop the session after a failed parry")
	rootCmd.Flags().BoolVar(&practiceSilent, "silent", false, "disable sound cues")
	rootCmd.Flags().StringVar(&practiceSoundCommand, "sound-command", "", "external player command for cue files")
	rootCmd.Flags().StringVar(&practiceSoundDir, "sound-dir", "", "directory containing cue sound files")

	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", "", "stats database path")
	rootCmd.PersistentFlags().StringVar(&rootLogFile, "log-file", "", "log file path (empty disables logging)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "text", "log format: text, json")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	envCfg, err := config.ParseEnv()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(resolveConfigPath(envCfg))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "delay-min", &practiceDelayMin, envCfg.DelayMin, fileCfg.Practice.DelayMin)
	applyConfig(cmd, "delay-max", &practiceDelayMax, envCfg.DelayMax, fileCfg.Practice.DelayMax)
	applyConfig(cmd, "parry-window", &practiceParryWindow, envCfg.ParryWindowMs, fileCfg.Practice.ParryWindowMs)
	applyConfig(cmd, "parry-key", &practiceParryKey, envCfg.ParryKey, fileCfg.Practice.ParryKey)
	applyConfig(cmd, "end-on-death", &practiceEndOnDeath, envCfg.EndOnDeath, fileCfg.Practice.EndOnDeath)
	applyConfig(cmd, "sound-command", &practiceSoundCommand, envCfg.SoundCommand, fileCfg.Sound.Command)
	applyConfig(cmd, "sound-dir", &practiceSoundDir, envCfg.SoundDir, fileCfg.Sound.Dir)
	applyConfig(cmd, "log-file", &rootLogFile, envCfg.LogFile, fileCfg.Log.File)
	applyConfig(cmd, "log-level", &rootLogLevel, envCfg.LogLevel, fileCfg.Log.Level)
	applyConfig(cmd, "log-format", &rootLogFormat, envCfg.LogFormat, fileCfg.Log.Format)

	if !cmd.Flags().Changed("silent") {
		if envCfg.SoundEnabled != nil {
			practiceSilent = !*envCfg.SoundEnabled
		} else if fileCfg.Sound.Enabled != nil {
			practiceSilent = !*fileCfg.Sound.Enabled
		}
	}

	cfg := model.Config{
		DelayMin:      practiceDelayMin,
		DelayMax:      practiceDelayMax,
		ParryWindowMs: practiceParryWindow,
		ParryKey:      practiceParryKey,
		EndOnDeath:    practiceEndOnDeath,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	key, err := input.ParseKey(cfg.ParryKey)
	if err != nil {
		return err
	}

	logger, closeLogger, err := buildLogger()
	if err != nil {
		return err
	}
	defer closeLogger()

	st, err := store.Open(resolveDBPath(envCfg))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	sched, err := schedule.New(cfg.DelayMin, cfg.DelayMax)
	if err != nil {
		return err
	}
	watcher := input.NewWatcher(key)
	jdg := judge.New(watcher.Presses(), time.Duration(cfg.ParryWindowMs)*time.Millisecond)
	agg := stats.NewAggregator()

	soundDir := practiceSoundDir
	if soundDir == "" {
		soundDir = config.DefaultSoundDir()
	}
	player := buildPlayer(practiceSilent, practiceSoundCommand, soundDir, logger)

	events := make(chan session.Event, 16)
	sess := session.New(session.Options{
		Config:     cfg,
		Scheduler:  sched,
		Judge:      jdg,
		Aggregator: agg,
		Player:     player,
		Logger:     logger,
		Events:     events,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startedAt := time.Now()
	runErr := make(chan error, 1)
	go func() {
		runErr <- sess.Run(ctx)
	}()

	ui := tui.NewModel(cfg, watcher, events, cancel)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		cancel()
		<-runErr
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	cancel()
	loopErr := <-runErr

	totals := agg.Totals()
	rounds := agg.Rounds()
	if totals.Attempts > 0 {
		record := model.SessionRecord{
			StartedAt:     startedAt,
			EndedAt:       time.Now(),
			DelayMin:      cfg.DelayMin,
			DelayMax:      cfg.DelayMax,
			ParryWindowMs: cfg.ParryWindowMs,
			ParryKey:      cfg.ParryKey,
			Attempts:      totals.Attempts,
			Successes:     totals.Successes,
			LatencySumMs:  totals.LatencySumMs,
			EndReason:     sess.Reason(),
		}
		if _, err := st.InsertSession(context.Background(), record, rounds); err != nil {
			logErrf("failed to save session: %v\n", err)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), stats.FormatSummaryLine(totals)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if streak := stats.LongestStreak(stats.SuccessFlags(rounds)); streak > 1 {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Longest streak: %d parries\n", streak); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return loopErr
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Open the config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	envCfg, err := config.ParseEnv()
	if err != nil {
		return err
	}
	path := resolveConfigPath(envCfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	switch _, err := os.Stat(path); {
	case os.IsNotExist(err):
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat config: %w", err)
	}

	parts := strings.Fields(os.Getenv("EDITOR"))
	if len(parts) == 0 {
		parts = []string{"vi"}
	}
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice statistics",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "only include sessions on or after this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "only include the last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "sessions per moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print stats without the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	envCfg, err := config.ParseEnv()
	if err != nil {
		return err
	}
	cfg := model.StatsConfig{
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	if statsSince != "" {
		since, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &since
	}

	st, err := store.Open(resolveDBPath(envCfg))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	if statsPlain {
		return renderPlainStats(cmd.OutOrStdout(), st, cfg)
	}

	ui := statsui.NewModel(st, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if len(report.Sessions) == 0 {
		if _, err := fmt.Fprintln(w, "No sessions found."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := stats.RenderSummary(w, report.Sessions, report.RoundsAll); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSessionTable(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderResponseCurve(w, report.RoundsWindow, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func buildLogger() (*slog.Logger, func(), error) {
	if rootLogFile == "" {
		return logging.Discard(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(rootLogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(rootLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := logging.New(logging.Options{Level: rootLogLevel, Format: rootLogFormat, Output: f})
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return logger, closeFn, nil
}

func buildPlayer(silent bool, command, dir string, logger *slog.Logger) audio.Player {
	if silent {
		return audio.NewNopPlayer()
	}
	if command != "" {
		return audio.NewCommandPlayer(command, dir, logger)
	}
	return audio.NewBellPlayer(os.Stderr)
}

func resolveConfigPath(envCfg config.EnvConfig) string {
	path := strings.TrimSpace(rootConfig)
	if path == "" && envCfg.ConfigPath != nil {
		path = strings.TrimSpace(*envCfg.ConfigPath)
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return path
}

func resolveDBPath(envCfg config.EnvConfig) string {
	path := strings.TrimSpace(rootDBPath)
	if path == "" && envCfg.DBPath != nil {
		path = strings.TrimSpace(*envCfg.DBPath)
	}
	if path == "" {
		path = config.DefaultDBPath()
	}
	return path
}

// applyConfig overlays env and file values onto a flag target unless the
// flag was set explicitly. Env values win over file values.
func applyConfig[T any](cmd *cobra.Command, name string, target, envValue, fileValue *T) {
	if cmd.Flags().Changed(name) {
		return
	}
	switch {
	case envValue != nil:
		*target = *envValue
	case fileValue != nil:
		*target = *fileValue
	}
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# deadlock-parry configuration
# Uncomment a value to enable it. CLI flags override config values,
# config values override these defaults.

[practice]
# delay-min = %d         # Minimum delay before a random punch, in seconds
# delay-max = %d        # Maximum delay before a random punch, in seconds
# parry-window = %d     # Max duration for parrying before being hit, in milliseconds
# parry-key = %q         # Key binding for parry
# end-on-death = false   # Stop the session after a failed parry

[sound]
# enabled = true         # Play sound cues
# command = "aplay"      # External player command for punch/parry/hit cue files
# dir = ""               # Directory containing punch.wav, parry.wav, hit.wav

[log]
# file = ""              # Log file path (empty disables logging)
# level = "info"         # Log level: debug, info, warn, error
# format = "text"        # Log format: text, json
`, defaultDelayMin, defaultDelayMax, defaultParryWindow, defaultParryKey)
}

func validateConfig(cfg model.Config) error {
	if cfg.DelayMin < 1 {
		return fmt.Errorf("--delay-min must be >= 1")
	}
	if cfg.DelayMax < cfg.DelayMin {
		return fmt.Errorf("--delay-max must be >= --delay-min")
	}
	if cfg.ParryWindowMs < 1 {
		return fmt.Errorf("--parry-window must be >= 1")
	}
	if _, err := input.ParseKey(cfg.ParryKey); err != nil {
		return err
	}
	return nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
