package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/timeentry"
)

var (
	addDate     string
	addStart    string
	addEnd      string
	addClient   string
	addActivity string
	addBillable bool
	addType     string
)

var addCmd = &cobra.Command{
	Use:     "add [description]",
	Aliases: []string{"log"},
	Short:   "Record a time entry",
	Long: `Examples:
	tally add --client acme --start 0900 --end 1030 "api review"
	tally add -c acme -s 22:00 -e 01:30 --date yesterday   # wraps past midnight
	tally add -c acme -s 9:15 -e now --activity support`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := draftFromFlags(strings.Join(args, " "))
		if err != nil {
			return err
		}

		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		e, err := s.cache.Add(ctx, d)
		if err != nil {
			if e.Local() {
				return s.park(ctx, e, err)
			}
			return err
		}
		fmt.Printf("Saved %s  %s %s–%s  %s\n", e.ID, e.Date, e.StartTime, e.EndTime, clock.FormatMinutes(e.Duration))
		return nil
	},
}

func draftFromFlags(desc string) (timeentry.Draft, error) {
	date, err := parseDay(addDate)
	if err != nil {
		return timeentry.Draft{}, fmt.Errorf("invalid --date: %w", err)
	}
	start, err := parseClock(addStart)
	if err != nil {
		return timeentry.Draft{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := parseClock(addEnd)
	if err != nil {
		return timeentry.Draft{}, fmt.Errorf("invalid --end: %w", err)
	}
	typ, err := timeentry.ParseEntryType(addType)
	if err != nil {
		return timeentry.Draft{}, err
	}
	return timeentry.NewDraft(timeentry.Draft{
		ClientID:    strings.TrimSpace(addClient),
		ActivityID:  strings.TrimSpace(addActivity),
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Description: desc,
		Billable:    addBillable,
		EntryType:   typ,
	})
}

func init() {
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "Day of the entry (default today)")
	addCmd.Flags().StringVarP(&addStart, "start", "s", "", "Start time, e.g. 09:00 or 0900")
	addCmd.Flags().StringVarP(&addEnd, "end", "e", "", "End time; earlier than start means the next day")
	addCmd.Flags().StringVarP(&addClient, "client", "c", "", "Client id")
	addCmd.Flags().StringVarP(&addActivity, "activity", "a", "", "Activity id")
	addCmd.Flags().BoolVar(&addBillable, "billable", true, "Mark the entry billable")
	addCmd.Flags().StringVarP(&addType, "type", "t", "service", "Entry type: service|product")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
	_ = addCmd.MarkFlagRequired("client")
}
