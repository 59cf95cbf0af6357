package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/timeentry"
	"github.com/ramanasai/tally/internal/utils"
)

var (
	searchFrom   string
	searchTo     string
	searchPreset string
)

// searchCmd matches words against description, client and activity.
var searchCmd = &cobra.Command{
	Use:   "search <words>",
	Short: "Search time entries",
	Long: `All words must match (case-insensitive) in the description, client or
activity. The default window is the last 30 days.

Examples:
	tally search deploy
	tally search "code review" --preset month
	tally search acme --from 2024-01-01 --to 2024-03-31 --format csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		renderConfig, err := renderConfigFromFlags()
		if err != nil {
			return err
		}
		from, to, err := resolveRange(searchPreset, searchFrom, searchTo, "last30days")
		if err != nil {
			return err
		}

		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.cache.LoadForRange(cmd.Context(), from, to); err != nil {
			return err
		}
		words := strings.Fields(strings.ToLower(strings.Join(args, " ")))
		hits := make([]timeentry.TimeEntry, 0)
		for _, e := range s.cache.All() {
			if matchesAll(e, words) {
				hits = append(hits, e)
			}
		}

		out, err := utils.NewRenderer(renderConfig).RenderEntryList(utils.NewEntryList(hits, from, to, nil))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func matchesAll(e timeentry.TimeEntry, words []string) bool {
	hay := strings.ToLower(e.Description + " " + e.ClientID + " " + e.ActivityID)
	for _, w := range words {
		if !strings.Contains(hay, w) {
			return false
		}
	}
	return true
}

func init() {
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "First day to search")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "Last day to search (default today)")
	searchCmd.Flags().StringVar(&searchPreset, "preset", "", "Range preset, see `tally list --help`")
	addOutputFlags(searchCmd)
}
