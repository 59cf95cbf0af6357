package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/notify"
	"github.com/ramanasai/tally/internal/timeentry"
)

var (
	stopID   string
	stopNote string
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cmd.Context()

		running, err := runningTimers(s, cmd, today())
		if err != nil {
			return err
		}
		var target timeentry.TimeEntry
		switch {
		case stopID != "":
			for _, e := range running {
				if e.ID == stopID {
					target = e
				}
			}
			if target.ID == "" {
				return fmt.Errorf("timer %s is not running", stopID)
			}
		case len(running) == 0:
			return fmt.Errorf("no running timers")
		default:
			target = running[len(running)-1]
		}

		now, _ := parseClock("now")
		target = target.WithTimes(target.StartTime, now)
		if note := strings.TrimSpace(stopNote); note != "" {
			if target.Description != "" {
				target.Description += "; "
			}
			target.Description += note
		}
		stopped, err := s.cache.Update(ctx, target)
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("Timer %s stopped: %s", stopped.ID, clock.FormatMinutes(stopped.Duration))
		fmt.Println(msg)
		if cfg.Notifications {
			_ = notify.Done(msg)
		}
		return nil
	},
}

func init() {
	stopCmd.Flags().StringVarP(&stopID, "id", "i", "", "Specific timer id to stop")
	stopCmd.Flags().StringVarP(&stopNote, "note", "n", "", "Optional note to append when stopping")
}
