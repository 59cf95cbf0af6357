package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ramanasai/tally/internal/clock"
)

const appName = "Tally"

func Info(title, message string) error {
	return beeep.Notify(title, message, "")
}

func Done(message string) error {
	return beeep.Alert(appName, message, "")
}

// Failure raises an alert for a repository error the user should see even
// when the terminal is in the background, e.g. a rejected token.
func Failure(err error) error {
	return beeep.Alert(appName, err.Error(), "")
}

// FormatDailyPrompt builds the end-of-day reminder from what is already logged.
func FormatDailyPrompt(loggedMinutes, unsaved int) (string, string) {
	title := "Time log reminder"
	var msg string
	if loggedMinutes == 0 {
		msg = "Nothing logged today yet. Record your hours?"
	} else {
		msg = fmt.Sprintf("%s logged today. Anything missing?", clock.FormatMinutes(loggedMinutes))
	}
	if unsaved > 0 {
		msg += fmt.Sprintf(" %d entries are not synced.", unsaved)
	}
	return title, msg
}
