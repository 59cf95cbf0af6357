package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Retry saving entries kept locally after a failed add",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		saved, remaining, err := s.sync(cmd.Context())
		fmt.Printf("Synced %d entries, %d still pending.\n", saved, remaining)
		return err
	},
}
