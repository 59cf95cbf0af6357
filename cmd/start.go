package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/timeentry"
	"github.com/ramanasai/tally/internal/utils"
)

var (
	startClient   string
	startActivity string
	allowMulti    bool
)

// startCmd records a zero-length entry starting now; stop closes it.
var startCmd = &cobra.Command{
	Use:   "start [description]",
	Short: "Start a timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cmd.Context()

		day := today()
		if !allowMulti {
			running, err := runningTimers(s, cmd, day)
			if err != nil {
				return err
			}
			if len(running) > 0 {
				return fmt.Errorf("a timer is already running since %s (use --allow-multiple to override)", running[len(running)-1].StartTime)
			}
		}

		now, _ := parseClock("now")
		d, err := timeentry.NewDraft(timeentry.Draft{
			ClientID:    strings.TrimSpace(startClient),
			ActivityID:  strings.TrimSpace(startActivity),
			Date:        day,
			StartTime:   now,
			EndTime:     now,
			Description: strings.Join(args, " "),
			Billable:    true,
			EntryType:   timeentry.Service,
		})
		if err != nil {
			return err
		}
		e, err := s.cache.Add(ctx, d)
		if err != nil {
			if e.Local() {
				return s.park(ctx, e, err)
			}
			return err
		}
		fmt.Printf("Timer %s started at %s\n", e.ID, e.StartTime)
		return nil
	},
}

// runningTimers returns zero-length entries from yesterday and date, oldest
// first. Yesterday is included so a timer can run past midnight.
func runningTimers(s *session, cmd *cobra.Command, date string) ([]timeentry.TimeEntry, error) {
	ctx := cmd.Context()
	prev, err := utils.ShiftDay(date, -1)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.LoadForRange(ctx, prev, date); err != nil {
		return nil, err
	}
	var out []timeentry.TimeEntry
	for _, e := range s.cache.All() {
		if e.StartTime == e.EndTime && !e.Local() {
			out = append(out, e)
		}
	}
	return out, nil
}

func init() {
	startCmd.Flags().StringVarP(&startClient, "client", "c", "", "Client id")
	startCmd.Flags().StringVarP(&startActivity, "activity", "a", "", "Activity id")
	startCmd.Flags().BoolVar(&allowMulti, "allow-multiple", false, "Allow multiple concurrent timers")
	_ = startCmd.MarkFlagRequired("client")
}
