package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/config"
	"github.com/ramanasai/tally/internal/timeentry"
)

func useTestConfig(t *testing.T) {
	t.Helper()
	prevCfg, prevNow := cfg, timeNow
	cfg = config.Default()
	cfg.Notifications = false
	cfg.Reminder.Timezone = "UTC"
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "tally.db")
	timeNow = func() time.Time { return time.Date(2024, 1, 10, 14, 7, 30, 0, time.UTC) }
	t.Cleanup(func() { cfg, timeNow = prevCfg, prevNow })
}

func TestParseClock(t *testing.T) {
	useTestConfig(t)
	cases := map[string]string{
		"09:30": "09:30",
		"9:30":  "09:30",
		"0930":  "09:30",
		"now":   "14:07",
	}
	for in, want := range cases {
		c, err := parseClock(in)
		if err != nil || c.String() != want {
			t.Fatalf("parseClock(%q) = %v %v, want %s", in, c, err, want)
		}
	}
	for _, bad := range []string{"", "930", "24:00", "ten"} {
		if _, err := parseClock(bad); !errors.Is(err, clock.ErrInvalidTime) {
			t.Fatalf("parseClock(%q) err = %v", bad, err)
		}
	}
}

func TestResolveRange(t *testing.T) {
	useTestConfig(t)
	from, to, err := resolveRange("", "", "", "week")
	if err != nil || from != "2024-01-08" || to != "2024-01-14" {
		t.Fatalf("default preset: %s..%s %v", from, to, err)
	}
	from, to, err = resolveRange("", "yesterday", "", "")
	if err != nil || from != "2024-01-09" || to != "2024-01-10" {
		t.Fatalf("from/to: %s..%s %v", from, to, err)
	}
}

func testEntry(client string, minutes int, billable, invoiced bool) timeentry.TimeEntry {
	return timeentry.Draft{
		ClientID: client, Date: "2024-01-10",
		StartTime: clock.MustParse("09:00"), EndTime: clock.FromMinutes(9*60 + minutes),
		Billable: billable, Invoiced: invoiced, Description: "deploy " + client,
	}.WithID(client + "-1")
}

func TestSummarize(t *testing.T) {
	rows, total := summarize([]timeentry.TimeEntry{
		testEntry("globex", 30, false, false),
		testEntry("acme", 60, true, true),
		testEntry("acme", 45, true, false),
	})
	if len(rows) != 2 || rows[0].Client != "acme" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Minutes != 105 || rows[0].Billable != 105 || rows[0].Invoiced != 60 {
		t.Fatalf("acme = %+v", rows[0])
	}
	if total.Entries != 3 || total.Minutes != 135 || total.Billable != 105 {
		t.Fatalf("total = %+v", total)
	}
}

func TestFilterClientsAndSearch(t *testing.T) {
	all := []timeentry.TimeEntry{testEntry("acme", 60, true, false), testEntry("globex", 30, true, false)}
	if got := filterClients(all, " globex, "); len(got) != 1 || got[0].ClientID != "globex" {
		t.Fatalf("filter = %+v", got)
	}
	if got := filterClients(all, ""); len(got) != 2 {
		t.Fatalf("empty filter dropped entries")
	}
	if !matchesAll(all[0], []string{"deploy", "acme"}) || matchesAll(all[0], []string{"globex"}) {
		t.Fatalf("matchesAll broken")
	}
}

func TestSession_ParkAndSync(t *testing.T) {
	useTestConfig(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	s, err := openSession(cfg, log)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	p := testEntry("acme", 60, true, false)
	p.ID = timeentry.NewLocalID()
	if err := s.park(ctx, p, timeentry.ErrNetwork); err != nil {
		t.Fatalf("park: %v", err)
	}

	saved, remaining, err := s.sync(ctx)
	if err != nil || saved != 1 || remaining != 0 {
		t.Fatalf("sync: saved=%d remaining=%d err=%v", saved, remaining, err)
	}
	if queued, _ := s.outbox.List(ctx); len(queued) != 0 {
		t.Fatalf("outbox not drained: %+v", queued)
	}
	day, err := s.repo.FetchByDate(ctx, "2024-01-10")
	if err != nil || len(day) != 1 || day[0].Local() {
		t.Fatalf("stored = %+v %v", day, err)
	}
}

func TestSession_FindEntry(t *testing.T) {
	useTestConfig(t)
	ctx := context.Background()
	s, err := openSession(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	e, err := s.cache.Add(ctx, testEntry("acme", 60, true, false).Draft())
	if err != nil {
		t.Fatal(err)
	}
	s.cache.Reset()

	got, err := s.findEntry(ctx, e.ID, "2024-01-10")
	if err != nil || got.ID != e.ID {
		t.Fatalf("find: %+v %v", got, err)
	}
	if _, err := s.findEntry(ctx, e.ID, "2024-01-11"); err == nil {
		t.Fatalf("found entry on the wrong day")
	}
}
