package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/timeentry"
)

var (
	summaryFrom   string
	summaryTo     string
	summaryPreset string
)

type clientTotal struct {
	Client   string
	Entries  int
	Minutes  int
	Billable int
	Invoiced int
}

// summaryCmd prints a per-client breakdown for a range and totals.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-client totals (default today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := resolveRange(summaryPreset, summaryFrom, summaryTo, "today")
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
		rows, total := summarize(s.cache.All())

		if from == to {
			fmt.Printf("%s:\n", from)
		} else {
			fmt.Printf("%s → %s:\n", from, to)
		}
		for _, r := range rows {
			fmt.Printf("  %-16s %3d entries  %8s  billable %8s  invoiced %8s\n",
				r.Client, r.Entries, clock.FormatMinutes(r.Minutes), clock.FormatMinutes(r.Billable), clock.FormatMinutes(r.Invoiced))
		}
		fmt.Printf("  %-16s %3d entries  %8s  billable %8s  invoiced %8s\n",
			"TOTAL", total.Entries, clock.FormatMinutes(total.Minutes), clock.FormatMinutes(total.Billable), clock.FormatMinutes(total.Invoiced))
		return nil
	},
}

func summarize(entries []timeentry.TimeEntry) ([]clientTotal, clientTotal) {
	by := map[string]*clientTotal{}
	total := clientTotal{Client: "TOTAL"}
	for _, e := range entries {
		r, ok := by[e.ClientID]
		if !ok {
			r = &clientTotal{Client: e.ClientID}
			by[e.ClientID] = r
		}
		for _, t := range []*clientTotal{r, &total} {
			t.Entries++
			t.Minutes += e.Duration
			if e.Billable {
				t.Billable += e.Duration
			}
			if e.Invoiced {
				t.Invoiced += e.Duration
			}
		}
	}
	rows := make([]clientTotal, 0, len(by))
	for _, r := range by {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Client < rows[j].Client })
	return rows, total
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFrom, "from", "", "First day")
	summaryCmd.Flags().StringVar(&summaryTo, "to", "", "Last day (default today)")
	summaryCmd.Flags().StringVar(&summaryPreset, "preset", "", "Range preset: today, yesterday, week, month, year, last7days, last30days")
}
