// Package cli wires the cinner command tree.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/sadopc/cinner/internal/config"
	"github.com/sadopc/cinner/internal/store"
	"github.com/sadopc/cinner/internal/timesheet"
)

// app holds per-invocation state shared by every command.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	nowFlag    string

	cfg   config.Config
	loc   *time.Location
	log   hclog.Logger
	store *store.Store
}

// NewRootCommand builds the command tree. Running it without a subcommand
// opens the TUI.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "cinner",
		Short:         "Track time per project and report merged daily hours",
		Long:          `cinner records work sessions per project and reports the hours worked each day, counting overlapping sessions once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runTUI,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/cinner/config.toml)")
	flags.StringVar(&a.dbPath, "db", "", "database file (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.nowFlag, "now", "", `evaluate as if the time were "DD/MM/YY - HH:MM:SS"`)
	flags.MarkHidden("now")

	rootCmd.AddCommand(
		a.newToggleCommand(),
		a.newStartCommand(),
		a.newStopCommand(),
		a.newAddCommand(),
		a.newSessionsCommand(),
		a.newCorrectCommand(),
		a.newStatusCommand(),
		a.newReportCommand(),
		a.newDailyCommand(),
		a.newProjectsCommand(),
		a.newMergeCommand(),
		a.newRenameCommand(),
		a.newArchiveCommand(),
		a.newDeleteCommand(),
		a.newColorCommand(),
		a.newImportCommand(),
		a.newExportCommand(),
		a.newConfigCommand(),
		a.newTUICommand(),
	)
	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves the config file and applies flag overrides.
func (a *app) loadConfig() error {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
			return fmt.Errorf("locate database: %w", err)
		}
	}
	a.cfg = cfg
	a.loc, _ = cfg.Location()
	return nil
}

// openStore builds the logger writing to logOut and opens the store.
// loadConfig must have run.
func (a *app) openStore(logOut io.Writer) error {
	a.log = hclog.New(&hclog.LoggerOptions{
		Name:   "cinner",
		Level:  hclog.LevelFromString(a.cfg.LogLevel),
		Output: logOut,
	})

	s, err := store.New(a.cfg.DBPath,
		store.WithLocation(a.loc),
		store.WithLogger(a.log.Named("store")),
		store.WithDefaults(map[string]string{
			store.SettingHourlyRate: fmt.Sprint(a.cfg.HourlyRate),
			store.SettingDailyGoal:  fmt.Sprint(int64(a.cfg.DailyGoal.Seconds())),
		}),
	)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.store = s
	a.log.Debug("store opened", "path", a.cfg.DBPath, "timezone", a.loc.String())
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// run wraps a command body with store setup and teardown.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.loadConfig(); err != nil {
			return err
		}
		if err := a.openStore(cmd.ErrOrStderr()); err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args)
	}
}

// now returns the evaluation instant, pinned by --now when given. It is
// whole seconds so printed and stored times agree.
func (a *app) now() (time.Time, error) {
	if a.nowFlag == "" {
		return time.Now().In(a.loc).Truncate(time.Second), nil
	}
	t, err := timesheet.ParseTimestamp(a.nowFlag, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now: %w", err)
	}
	return t, nil
}
