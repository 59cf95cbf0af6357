package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/config"
	"github.com/ramanasai/tally/internal/notify"
	"github.com/ramanasai/tally/internal/schedule"
	"github.com/ramanasai/tally/internal/timeentry"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "tally",
	Short:        "Freelancer time tracking",
	SilenceUsage: true,
}

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

		if cfg.Reminder.Enabled && os.Getenv("TALLY_NO_REMINDER") != "1" {
			go schedule.RunConfigured(cmd.Context(), cfg, remind)
		}
		return nil
	}

	// Add commands; other files define these vars
	rootCmd.AddCommand(addCmd, listCmd, editCmd, rmCmd, startCmd, stopCmd,
		summaryCmd, searchCmd, syncCmd, tuiCmd, versionCmd)
}

// remind reads the store directly rather than through a cache, so it never
// touches state owned by the running command.
func remind() {
	s, err := openSession(cfg, logger)
	if err != nil {
		logger.Warn("reminder: open store", slog.Any("err", err))
		return
	}
	defer s.Close()

	ctx := context.Background()
	today := today()
	entries, err := s.repo.FetchByDate(ctx, today)
	if err != nil {
		logger.Warn("reminder: fetch", slog.Any("err", err))
	}
	logged := 0
	for _, e := range entries {
		logged += e.Duration
	}
	queued, _ := s.outbox.List(ctx)

	title, msg := notify.FormatDailyPrompt(logged, len(queued))
	if err := notify.Info(title, msg); err != nil {
		logger.Debug("reminder: notify", slog.Any("err", err))
	}
}

func today() string {
	return timeNow().In(cfg.Location()).Format(timeentry.DateLayout)
}
