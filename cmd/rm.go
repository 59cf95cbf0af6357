package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmDate string

var rmCmd = &cobra.Command{
	Use:     "rm [entry-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a time entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(rmDate)
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
		if err := s.cache.Remove(ctx, e.ID); err != nil {
			return err
		}
		if e.Local() {
			if err := s.outbox.Drop(ctx, e.ID); err != nil {
				return err
			}
		}
		fmt.Printf("Deleted %s.\n", e.ID)
		return nil
	},
}

func init() {
	rmCmd.Flags().StringVarP(&rmDate, "date", "d", "", "Day the entry is on (default today)")
}
