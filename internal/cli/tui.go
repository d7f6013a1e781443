package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/cinner/internal/tui"
)

func (a *app) newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
}

// runTUI logs to cinner.log next to the database so log lines do not
// corrupt the alt screen.
func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	logPath := filepath.Join(filepath.Dir(a.cfg.DBPath), "cinner.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	if err := a.openStore(logFile); err != nil {
		return err
	}
	defer a.close()

	if _, err := a.now(); err != nil {
		return err
	}
	app := tui.NewApp(a.store, tui.Options{
		Currency: a.cfg.Currency,
		Logger:   a.log.Named("tui"),
		Clock: func() time.Time {
			t, _ := a.now()
			return t
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
