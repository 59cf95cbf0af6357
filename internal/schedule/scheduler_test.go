package schedule

import (
	"testing"
	"time"

	"github.com/ramanasai/tally/internal/config"
)

func reminderConfig(at string, holidays ...string) config.Config {
	cfg := config.Default()
	cfg.Reminder.Enabled = true
	cfg.Reminder.Time = at
	cfg.Reminder.Timezone = "UTC"
	cfg.Reminder.Holidays = holidays
	return cfg
}

func TestNextAt(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	wed := func(h, m int) time.Time { return time.Date(2024, 1, 10, h, m, 0, 0, time.UTC) }

	cases := []struct {
		name string
		now  time.Time
		cfg  config.Config
		want time.Time
	}{
		{"later today", wed(9, 0), reminderConfig("17:00"), wed(17, 0)},
		{"already passed", wed(17, 0), reminderConfig("17:00"), time.Date(2024, 1, 11, 17, 0, 0, 0, time.UTC)},
		{"raw digits", wed(9, 0), reminderConfig("1730"), wed(17, 30)},
		{"garbage falls back", wed(9, 0), reminderConfig("late"), wed(17, 0)},
		{"skips weekend", time.Date(2024, 1, 12, 18, 0, 0, 0, time.UTC), reminderConfig("17:00"), time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)},
		{"skips holiday", wed(18, 0), reminderConfig("17:00", "2024-01-11"), time.Date(2024, 1, 12, 17, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NextAt(c.now, c.cfg); !got.Equal(c.want) {
				t.Fatalf("NextAt = %v, want %v", got, c.want)
			}
		})
	}
}
