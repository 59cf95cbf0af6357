package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/db"
	"github.com/ramanasai/tally/internal/notify"
	"github.com/ramanasai/tally/internal/ui"
)

var tuiDate string

// tuiCmd launches the Bubble Tea TUI.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(tuiDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}

		// stderr belongs to the alt screen now; log to a file instead.
		var sink io.Writer = io.Discard
		if dbPath, err := db.DefaultSQLitePath(); err == nil {
			if f, err := tea.LogToFile(filepath.Join(filepath.Dir(dbPath), "tui.log"), "tally"); err == nil {
				defer f.Close()
				sink = f
			}
		}
		log := slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: cfg.Level()}))

		s, err := openSession(cfg, log)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := ui.Options{
			Context: cmd.Context(),
			Cache:   s.cache,
			Outbox:  s.outbox,
			Log:     log,
			Date:    date,
			Theme:   cfg.Theme,
		}
		if cfg.Notifications {
			opts.Notify = func(err error) { _ = notify.Failure(err) }
		}
		return ui.Run(opts)
	},
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiDate, "date", "d", "", "Day to open (default today)")
}
