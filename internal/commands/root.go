// Package commands implements the momentum command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/metrics"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/retry"
	"github.com/nhle/momentum/internal/store"
	"github.com/nhle/momentum/internal/theme"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// env is the state shared by one invocation's commands. The store and
// service are opened on first use.
type env struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg     *model.AppConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   *store.SQLiteStore
	svc     *app.Service
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "momentum",
		Short: "Goals, tasks, streaks, and XP from the terminal",
		Long: `momentum tracks goals and the tasks that move them forward.
Completing tasks earns XP, levels, and badges for their goal, keeps daily
streaks alive, and flags goals that have gone quiet.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return e.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.configPath, "config", model.DefaultConfigPath(), "config file")
	flags.StringVar(&e.dbPath, "db", "", "database file (overrides database.path)")
	flags.StringVar(&e.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newGoalCmd(e),
		newTaskCmd(e),
		newHistoryCmd(e),
		newJournalCmd(e),
		newInactiveCmd(e),
		newThemeCmd(e),
		newProfileCmd(e),
		newSettingsCmd(e),
		newFocusCmd(e),
		newResetCmd(e),
		newExportCmd(e),
		newServeCmd(e),
	)
	return root
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func (e *env) init() error {
	lvl, err := parseLevel(e.logLevel)
	if err != nil {
		return err
	}
	e.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	cfg, err := model.LoadConfig(e.configPath)
	if err != nil {
		return err
	}
	if e.dbPath != "" {
		cfg.Database.Path = e.dbPath
	}
	theme.SetDarkMode(cfg.Settings.DarkMode)
	e.cfg = cfg
	return nil
}

// service opens the store and builds the Service on first call.
func (e *env) service() (*app.Service, error) {
	if e.svc != nil {
		return e.svc, nil
	}

	st, err := store.NewSQLiteStore(e.cfg.Database.Path, store.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	e.store = st
	e.metrics = metrics.New()
	e.svc = app.New(st,
		app.WithLogger(e.logger),
		app.WithMetrics(e.metrics),
		app.WithInactivityThreshold(e.cfg.Settings.InactivityThresholdDays),
		app.WithWritePolicy(retry.Policy{
			Attempts: e.cfg.Retry.Attempts,
			Delay:    e.cfg.Retry.Delay(),
		}),
	)

	if _, err := e.svc.SeedDefaultThemes(context.Background()); err != nil {
		e.logger.Warn("seeding default themes failed", "error", err)
	}
	return e.svc, nil
}

func (e *env) close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store, e.svc = nil, nil
	return err
}

// saveSettings persists the inactivity threshold to the config file.
func (e *env) saveSettings(thresholdDays int) error {
	e.cfg.Settings.InactivityThresholdDays = thresholdDays
	return model.SaveConfig(e.configPath, e.cfg)
}
