package notify

import "testing"

func TestFormatDailyPrompt(t *testing.T) {
	cases := []struct {
		logged, unsaved int
		want            string
	}{
		{0, 0, "Nothing logged today yet. Record your hours?"},
		{450, 0, "7h 30m logged today. Anything missing?"},
		{60, 2, "1h logged today. Anything missing? 2 entries are not synced."},
	}
	for _, c := range cases {
		title, msg := FormatDailyPrompt(c.logged, c.unsaved)
		if title != "Time log reminder" {
			t.Fatalf("title = %q", title)
		}
		if msg != c.want {
			t.Fatalf("FormatDailyPrompt(%d, %d) = %q, want %q", c.logged, c.unsaved, msg, c.want)
		}
	}
}
