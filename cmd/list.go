package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/timeentry"
	"github.com/ramanasai/tally/internal/utils"
)

var (
	listDate    string
	listFrom    string
	listTo      string
	listPreset  string
	listClients string
	format      string
	noColor     bool
	page        int
	perPage     int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries",
	Long: `Examples:
	tally list                                 # today
	tally list --date yesterday
	tally list --preset week --format table
	tally list --from 2024-01-01 --to 2024-01-31 --client acme,globex
	tally list --preset month --format csv > january.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderConfig, err := renderConfigFromFlags()
		if err != nil {
			return err
		}

		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cmd.Context()

		var from, to string
		if listPreset != "" || listFrom != "" || listTo != "" {
			if from, to, err = resolveRange(listPreset, listFrom, listTo, ""); err != nil {
				return err
			}
			if _, err := s.cache.LoadForRange(ctx, from, to); err != nil {
				return err
			}
		} else {
			if from, err = parseDay(listDate); err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			to = from
			if _, err := s.cache.LoadForDate(ctx, from); err != nil {
				return err
			}
		}
		if _, err := s.adopt(ctx, from, to); err != nil {
			return err
		}

		entries := filterClients(s.cache.All(), listClients)
		var p *utils.PaginationInfo
		if perPage > 0 {
			p = utils.NewPagination(len(entries), perPage, page)
		}
		out, err := utils.NewRenderer(renderConfig).RenderEntryList(utils.NewEntryList(entries, from, to, p))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func renderConfigFromFlags() (*utils.RenderConfig, error) {
	rc := utils.DefaultRenderConfig()
	f, err := utils.ParseOutputFormat(format)
	if err != nil {
		return nil, err
	}
	rc.Format = f
	rc.Color = !noColor
	return rc, nil
}

// filterClients keeps entries whose client is in the comma-separated list.
func filterClients(entries []timeentry.TimeEntry, list string) []timeentry.TimeEntry {
	if strings.TrimSpace(list) == "" {
		return entries
	}
	want := map[string]bool{}
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			want[c] = true
		}
	}
	out := entries[:0:0]
	for _, e := range entries {
		if want[e.ClientID] {
			out = append(out, e)
		}
	}
	return out
}

func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVar(&format, "format", "default", "Output format: default, table, json, csv, compact")
	c.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func init() {
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "Day to list (default today)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "First day of a range")
	listCmd.Flags().StringVar(&listTo, "to", "", "Last day of a range (default today)")
	listCmd.Flags().StringVar(&listPreset, "preset", "", "Range preset: today, yesterday, week, month, year, last7days, last30days")
	listCmd.Flags().StringVarP(&listClients, "client", "c", "", "Filter by clients (comma-separated)")
	listCmd.Flags().IntVar(&page, "page", 1, "Page number to show")
	listCmd.Flags().IntVar(&perPage, "per-page", 0, "Entries per page (0 shows all)")
	addOutputFlags(listCmd)
}
