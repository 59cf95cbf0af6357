// Package clock holds the time-of-day kernel: canonical "HH:MM" values,
// normalization of raw keystrokes and wraparound durations.
package clock

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

var ErrInvalidTime = errors.New("invalid time of day")

var validRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Clock is a validated time of day, stored as minutes since midnight.
// The zero value is midnight.
type Clock struct {
	min int
}

// Normalize strips non-digits, keeps at most four of them and inserts the
// colon once a third digit exists. Partial input stays partial.
func Normalize(raw string) string {
	var b strings.Builder
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		if n == 2 {
			b.WriteByte(':')
		}
		b.WriteRune(r)
		n++
		if n == 4 {
			break
		}
	}
	return b.String()
}

func IsValid(value string) bool {
	return validRe.MatchString(value)
}

// Parse is the only way to get a Clock out of text.
func Parse(value string) (Clock, error) {
	if !IsValid(value) {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hh, mm, _ := strings.Cut(value, ":")
	// IsValid guarantees both halves are digits.
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return Clock{min: h*60 + m}, nil
}

// MustParse is for literals in tests and defaults.
func MustParse(value string) Clock {
	c, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return c
}

func FromMinutes(m int) Clock {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return Clock{min: m}
}

func (c Clock) Minutes() int { return c.min }
func (c Clock) Hour() int    { return c.min / 60 }
func (c Clock) Minute() int  { return c.min % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Value stores the canonical text form.
func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	default:
		return fmt.Errorf("clock: cannot scan %T", src)
	}
}

// Duration returns the minutes from start to end. An end earlier than start
// is read as falling on the next day; equal values give 0.
func Duration(start, end Clock) int {
	if end.min >= start.min {
		return end.min - start.min
	}
	return (MinutesPerDay - start.min) + end.min
}

// FormatMinutes renders "2h 15m", "2h" or "45m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
