package utils

import (
	"testing"
	"time"
)

// 2024-01-10 is a Wednesday.
var wednesday = time.Date(2024, 1, 10, 15, 4, 0, 0, time.UTC)

func TestParseDay(t *testing.T) {
	cases := map[string]string{
		"today":       "2024-01-10",
		" Yesterday ": "2024-01-09",
		"tomorrow":    "2024-01-11",
		"3 days ago":  "2024-01-07",
		"1w ago":      "2024-01-03",
		"wednesday":   "2024-01-10",
		"mon":         "2024-01-08",
		"thursday":    "2024-01-04",
		"2023-12-31":  "2023-12-31",
		"2023/12/31":  "2023-12-31",
		"31.12.2023":  "2023-12-31",
		"Jan 5, 2024": "2024-01-05",
	}
	for in, want := range cases {
		got, err := ParseDay(in, wednesday)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDay(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "someday", "2024-13-01"} {
		if _, err := ParseDay(bad, wednesday); err == nil {
			t.Fatalf("ParseDay(%q) should fail", bad)
		}
	}
}

func TestDateRange(t *testing.T) {
	cases := []struct{ preset, start, end string }{
		{"today", "2024-01-10", "2024-01-10"},
		{"week", "2024-01-08", "2024-01-14"},
		{"month", "2024-01-01", "2024-01-31"},
		{"last7days", "2024-01-04", "2024-01-10"},
	}
	for _, c := range cases {
		s, e, err := DateRange(c.preset, wednesday)
		if err != nil || s != c.start || e != c.end {
			t.Fatalf("DateRange(%q) = %s..%s %v", c.preset, s, e, err)
		}
	}
	if _, _, err := DateRange("fortnight", wednesday); err == nil {
		t.Fatalf("expected error")
	}
}

func TestShiftDay(t *testing.T) {
	got, err := ShiftDay("2024-02-28", 2)
	if err != nil || got != "2024-03-01" {
		t.Fatalf("ShiftDay = %q %v", got, err)
	}
}
