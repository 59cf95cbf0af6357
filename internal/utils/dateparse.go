package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/tally/internal/timeentry"
)

var relativeRe = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)\s+ago$`)

// ParseDay resolves user input to a calendar day (YYYY-MM-DD) relative to now.
// Accepts today/yesterday/tomorrow, "N days ago", weekday names (the most
// recent one, today included) and a handful of absolute layouts.
func ParseDay(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return "", fmt.Errorf("empty date input")
	}
	day := midnight(now)

	switch input {
	case "today":
		return day.Format(timeentry.DateLayout), nil
	case "yesterday":
		return day.AddDate(0, 0, -1).Format(timeentry.DateLayout), nil
	case "tomorrow":
		return day.AddDate(0, 0, 1).Format(timeentry.DateLayout), nil
	}

	if m := relativeRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "w") {
			n *= 7
		}
		return day.AddDate(0, 0, -n).Format(timeentry.DateLayout), nil
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if input == name || input == name[:3] {
			back := (int(day.Weekday()) - int(d) + 7) % 7
			return day.AddDate(0, 0, -back).Format(timeentry.DateLayout), nil
		}
	}

	formats := []string{
		timeentry.DateLayout,
		"2006/01/02",
		"02.01.2006", // European format
		"jan 2, 2006",
		"2 jan 2006",
		"january 2, 2006",
		"2 january 2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, input, now.Location()); err == nil {
			return t.Format(timeentry.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unable to parse date: %s", input)
}

// DateRange returns the inclusive first and last day of a preset.
func DateRange(preset string, now time.Time) (string, string, error) {
	day := midnight(now)
	var start, end time.Time

	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "today":
		start, end = day, day
	case "yesterday":
		start = day.AddDate(0, 0, -1)
		end = start
	case "week":
		weekday := int(day.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		start = day.AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 6)
	case "month":
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		end = start.AddDate(0, 1, -1)
	case "year":
		start = time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
		end = time.Date(day.Year(), 12, 31, 0, 0, 0, 0, day.Location())
	case "last7days", "last-7-days":
		start, end = day.AddDate(0, 0, -6), day
	case "last30days", "last-30-days":
		start, end = day.AddDate(0, 0, -29), day
	default:
		return "", "", fmt.Errorf("unknown date preset: %s", preset)
	}
	return start.Format(timeentry.DateLayout), end.Format(timeentry.DateLayout), nil
}

// ShiftDay moves a YYYY-MM-DD day by n days.
func ShiftDay(date string, n int) (string, error) {
	t, err := time.Parse(timeentry.DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(timeentry.DateLayout), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
