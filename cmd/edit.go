package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/timeentry"
)

var (
	editDate     string
	editStart    string
	editEnd      string
	editClient   string
	editActivity string
	editText     string
	editBillable bool
	editInvoiced bool
	editType     string
)

var editCmd = &cobra.Command{
	Use:   "edit [entry-id]",
	Short: "Edit an existing time entry",
	Long: `The entry is looked up on --date (default today). Unsynced local
entries (local-...) are edited in the outbox.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if !f.Changed("start") && !f.Changed("end") && !f.Changed("client") && !f.Changed("activity") &&
			!f.Changed("text") && !f.Changed("billable") && !f.Changed("invoiced") && !f.Changed("type") {
			return fmt.Errorf("nothing to update - specify at least one field to edit")
		}
		date, err := parseDay(editDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}

		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cmd.Context()

		e, err := s.findEntry(ctx, args[0], date)
		if err != nil {
			return err
		}

		start, end := e.StartTime, e.EndTime
		if f.Changed("start") {
			if start, err = parseClock(editStart); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
		}
		if f.Changed("end") {
			if end, err = parseClock(editEnd); err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
		}
		e = e.WithTimes(start, end)
		if f.Changed("client") {
			e.ClientID = editClient
		}
		if f.Changed("activity") {
			e.ActivityID = editActivity
		}
		if f.Changed("text") {
			e.Description = editText
		}
		if f.Changed("billable") {
			e.Billable = editBillable
		}
		if f.Changed("invoiced") {
			e.Invoiced = editInvoiced
		}
		if f.Changed("type") {
			if e.EntryType, err = timeentry.ParseEntryType(editType); err != nil {
				return err
			}
		}

		updated, err := s.cache.Update(ctx, e)
		if err != nil {
			return err
		}
		if updated.Local() {
			if err := s.outbox.Put(ctx, updated); err != nil {
				return err
			}
		}
		fmt.Printf("Entry %s updated: %s–%s  %s\n", updated.ID, updated.StartTime, updated.EndTime, clock.FormatMinutes(updated.Duration))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVarP(&editDate, "date", "d", "", "Day the entry is on (default today)")
	editCmd.Flags().StringVarP(&editStart, "start", "s", "", "New start time")
	editCmd.Flags().StringVarP(&editEnd, "end", "e", "", "New end time")
	editCmd.Flags().StringVarP(&editClient, "client", "c", "", "New client id")
	editCmd.Flags().StringVarP(&editActivity, "activity", "a", "", "New activity id")
	editCmd.Flags().StringVarP(&editText, "text", "m", "", "New description")
	editCmd.Flags().BoolVar(&editBillable, "billable", true, "Billable flag")
	editCmd.Flags().BoolVar(&editInvoiced, "invoiced", false, "Invoiced flag")
	editCmd.Flags().StringVarP(&editType, "type", "t", "", "New entry type: service|product")
}
