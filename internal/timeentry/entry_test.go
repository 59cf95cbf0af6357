package timeentry

import (
	"errors"
	"testing"

	"github.com/ramanasai/tally/internal/clock"
)

func TestParseEntryType(t *testing.T) {
	for in, want := range map[string]EntryType{"": Service, "service": Service, " Product ": Product} {
		got, err := ParseEntryType(in)
		if err != nil || got != want {
			t.Fatalf("ParseEntryType(%q) = %q %v", in, got, err)
		}
	}
	if _, err := ParseEntryType("subscription"); !errors.Is(err, ErrInvalidEntryType) {
		t.Fatalf("expected ErrInvalidEntryType, got %v", err)
	}
}

func TestNewDraft(t *testing.T) {
	d, err := NewDraft(Draft{
		ClientID:  "acme",
		Date:      "2024-01-10",
		StartTime: clock.MustParse("22:00"),
		EndTime:   clock.MustParse("01:00"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Duration != 180 || d.EntryType != Service {
		t.Fatalf("draft = %+v", d)
	}

	if _, err := NewDraft(Draft{Date: "2024-01-10"}); !errors.Is(err, ErrMissingClient) {
		t.Fatalf("missing client: %v", err)
	}
	if _, err := NewDraft(Draft{ClientID: "acme", Date: "10/01/2024"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad date: %v", err)
	}
	if _, err := NewDraft(Draft{ClientID: "acme", Date: "2024-01-10", EntryType: "gift"}); !errors.Is(err, ErrInvalidEntryType) {
		t.Fatalf("bad type: %v", err)
	}
}

func TestEntry_WithTimesRederivesDuration(t *testing.T) {
	e := Draft{ClientID: "acme", Date: "2024-01-10", StartTime: clock.MustParse("09:00"), EndTime: clock.MustParse("10:00")}.WithID("x")
	e = e.WithTimes(clock.MustParse("09:00"), clock.MustParse("09:15"))
	if e.Duration != 15 {
		t.Fatalf("duration = %d", e.Duration)
	}
	if e.Local() || !IsLocalID(NewLocalID()) {
		t.Fatalf("local id detection broken")
	}
}
