// Package timeentry holds the time entry model, the repository contract and
// the client-side cache that reconciles partial fetches.
package timeentry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ramanasai/tally/internal/clock"
)

// DateLayout is the calendar-day format used for TimeEntry.Date.
const DateLayout = "2006-01-02"

type EntryType string

const (
	Service EntryType = "service"
	Product EntryType = "product"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrMissingClient    = errors.New("client id is required")
)

func ParseEntryType(s string) (EntryType, error) {
	switch t := EntryType(strings.ToLower(strings.TrimSpace(s))); t {
	case Service, Product:
		return t, nil
	case "":
		return Service, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
	}
}

// TimeEntry is one recorded block of work. Duration is derived from
// StartTime and EndTime and is never set by hand.
type TimeEntry struct {
	ID          string      `json:"id"`
	ClientID    string      `json:"clientId"`
	ActivityID  string      `json:"activityId"`
	Date        string      `json:"date"`
	StartTime   clock.Clock `json:"startTime"`
	EndTime     clock.Clock `json:"endTime"`
	Duration    int         `json:"duration"`
	Description string      `json:"description,omitempty"`
	Billable    bool        `json:"billable"`
	Invoiced    bool        `json:"invoiced"`
	EntryType   EntryType   `json:"entryType"`
}

// Draft is a TimeEntry that has not been given an id yet.
type Draft struct {
	ClientID    string      `json:"clientId"`
	ActivityID  string      `json:"activityId"`
	Date        string      `json:"date"`
	StartTime   clock.Clock `json:"startTime"`
	EndTime     clock.Clock `json:"endTime"`
	Duration    int         `json:"duration"`
	Description string      `json:"description,omitempty"`
	Billable    bool        `json:"billable"`
	Invoiced    bool        `json:"invoiced"`
	EntryType   EntryType   `json:"entryType"`
}

// NewDraft validates the date and fills in the derived duration.
func NewDraft(d Draft) (Draft, error) {
	if strings.TrimSpace(d.ClientID) == "" {
		return Draft{}, ErrMissingClient
	}
	if err := ValidateDate(d.Date); err != nil {
		return Draft{}, err
	}
	if d.EntryType == "" {
		d.EntryType = Service
	}
	if _, err := ParseEntryType(string(d.EntryType)); err != nil {
		return Draft{}, err
	}
	d.Duration = clock.Duration(d.StartTime, d.EndTime)
	return d, nil
}

func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}

// WithID turns the draft into an entry carrying id.
func (d Draft) WithID(id string) TimeEntry {
	return TimeEntry{
		ID:          id,
		ClientID:    d.ClientID,
		ActivityID:  d.ActivityID,
		Date:        d.Date,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Duration:    clock.Duration(d.StartTime, d.EndTime),
		Description: d.Description,
		Billable:    d.Billable,
		Invoiced:    d.Invoiced,
		EntryType:   d.EntryType,
	}
}

func (e TimeEntry) Draft() Draft {
	return Draft{
		ClientID:    e.ClientID,
		ActivityID:  e.ActivityID,
		Date:        e.Date,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Duration:    e.Duration,
		Description: e.Description,
		Billable:    e.Billable,
		Invoiced:    e.Invoiced,
		EntryType:   e.EntryType,
	}
}

// WithTimes returns a copy with new start/end and the matching duration.
func (e TimeEntry) WithTimes(start, end clock.Clock) TimeEntry {
	e.StartTime, e.EndTime = start, end
	e.Duration = clock.Duration(start, end)
	return e
}

// Derive recomputes Duration from the entry's own times.
func (e TimeEntry) Derive() TimeEntry {
	return e.WithTimes(e.StartTime, e.EndTime)
}

func (e TimeEntry) Local() bool { return IsLocalID(e.ID) }

// less orders entries by date, start time, then id.
func less(a, b TimeEntry) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.StartTime != b.StartTime {
		return a.StartTime.Minutes() < b.StartTime.Minutes()
	}
	return a.ID < b.ID
}
