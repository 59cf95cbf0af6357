package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/config"
	"github.com/ramanasai/tally/internal/timeentry"
)

var defaultAt = clock.MustParse("17:00")

// NextAt returns the next reminder instant that falls on a configured
// workday and not on a holiday. An unparseable reminder time means 17:00.
func NextAt(now time.Time, cfg config.Config) time.Time {
	loc := cfg.Location()
	now = now.In(loc)

	at, err := clock.Parse(clock.Normalize(cfg.Reminder.Time))
	if err != nil {
		at = defaultAt
	}

	workdays := map[time.Weekday]bool{}
	for _, d := range cfg.Reminder.Workdays {
		if wd, ok := weekday(d); ok {
			workdays[wd] = true
		}
	}
	holidays := map[string]bool{}
	for _, h := range cfg.Reminder.Holidays {
		holidays[strings.TrimSpace(h)] = true
	}
	eligible := func(t time.Time) bool {
		return workdays[t.Weekday()] && !holidays[t.Format(timeentry.DateLayout)]
	}
	if len(workdays) == 0 {
		eligible = func(t time.Time) bool { return !holidays[t.Format(timeentry.DateLayout)] }
	}

	cand := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	// a full year of holidays is the worst case
	for i := 0; i < 400 && !eligible(cand); i++ {
		cand = cand.AddDate(0, 0, 1)
	}
	return cand
}

func weekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()[:3]) == s[:3] {
			return d, true
		}
	}
	return 0, false
}

// RunConfigured runs the reminder callback at the configured schedule until ctx is canceled.
func RunConfigured(ctx context.Context, cfg config.Config, f func()) {
	next := NextAt(time.Now(), cfg)
	t := time.NewTimer(time.Until(next))
	for {
		select {
		case <-ctx.Done():
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
			return
		case <-t.C:
			f()
			next = NextAt(time.Now(), cfg)
			t.Reset(time.Until(next))
		}
	}
}
