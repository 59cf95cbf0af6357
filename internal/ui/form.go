package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/timeentry"
	"github.com/ramanasai/tally/internal/timeinput"
)

const (
	fieldStart = iota
	fieldEnd
	fieldClient
	fieldActivity
	fieldDescription
	fieldCount
)

// form edits one entry. editing is empty for a new entry.
type form struct {
	editing  timeentry.TimeEntry
	start    timeinput.Model
	end      timeinput.Model
	client   AutocompleteModel
	activity AutocompleteModel
	desc     textinput.Model
	billable bool
	focus    int
	err      string
}

func newForm(theme Theme, e *timeentry.TimeEntry, clients, activities []string) form {
	f := form{
		start:    timeinput.NewModel("start", ""),
		end:      timeinput.NewModel("end", ""),
		client:   NewAutocomplete("client", 5),
		activity: NewAutocomplete("activity (optional)", 5),
		desc:     textinput.New(),
		billable: true,
	}
	f.start.Prompt, f.end.Prompt = "", ""
	f.start.PlaceholderStyle = theme.Hint
	f.end.PlaceholderStyle = theme.Hint
	f.desc.Placeholder = "description"
	f.desc.CharLimit = 1024
	f.client.SetCandidates(clients)
	f.activity.SetCandidates(activities)

	if e != nil {
		f.editing = *e
		f.start.SetValue(e.StartTime.String())
		f.end.SetValue(e.EndTime.String())
		f.client.SetValue(e.ClientID)
		f.activity.SetValue(e.ActivityID)
		f.desc.SetValue(e.Description)
		f.billable = e.Billable
	}
	f.setFocus(fieldStart)
	return f
}

func (f *form) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	f.start.Blur()
	f.end.Blur()
	f.client.Blur()
	f.activity.Blur()
	f.desc.Blur()
	switch f.focus {
	case fieldStart:
		f.start.Focus()
	case fieldEnd:
		f.end.Focus()
	case fieldClient:
		return f.client.Focus()
	case fieldActivity:
		return f.activity.Focus()
	case fieldDescription:
		return f.desc.Focus()
	}
	return nil
}

// suggesting reports whether the focused field wants Tab/Enter/Esc itself.
func (f form) suggesting() bool {
	return (f.focus == fieldClient && f.client.Showing()) ||
		(f.focus == fieldActivity && f.activity.Showing())
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldStart:
		f.start, cmd = f.start.Update(msg)
	case fieldEnd:
		f.end, cmd = f.end.Update(msg)
	case fieldClient:
		f.client, cmd = f.client.Update(msg)
	case fieldActivity:
		f.activity, cmd = f.activity.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd
}

func (f form) times() (clock.Clock, clock.Clock, bool) {
	s, okS := f.start.Editor().Clock()
	e, okE := f.end.Editor().Clock()
	return s, e, okS && okE
}

// preview is the live duration shown under the editors.
func (f form) preview() string {
	s, e, ok := f.times()
	if !ok {
		return "--"
	}
	return clock.FormatMinutes(clock.Duration(s, e))
}

// draft validates the form into a draft for date.
func (f form) draft(date string) (timeentry.Draft, error) {
	s, e, ok := f.times()
	if !ok {
		return timeentry.Draft{}, fmt.Errorf("start and end must be complete HH:MM times")
	}
	typ := f.editing.EntryType
	if typ == "" {
		typ = timeentry.Service
	}
	return timeentry.NewDraft(timeentry.Draft{
		ClientID:    strings.TrimSpace(f.client.Value()),
		ActivityID:  strings.TrimSpace(f.activity.Value()),
		Date:        date,
		StartTime:   s,
		EndTime:     e,
		Description: strings.TrimSpace(f.desc.Value()),
		Billable:    f.billable,
		Invoiced:    f.editing.Invoiced,
		EntryType:   typ,
	})
}

func (f form) view(theme Theme) string {
	var b strings.Builder
	title := "New entry"
	if f.editing.ID != "" {
		title = "Edit " + f.editing.ID
	}
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("start", f.start.View())
	row("end", f.end.View())
	b.WriteString(theme.Label.Render(fmt.Sprintf("%-10s", "duration")))
	b.WriteString(theme.Value.Render(f.preview()))
	b.WriteString("\n")
	row("client", f.client.View())
	row("activity", f.activity.View())
	row("note", f.desc.View())
	billable := "no"
	if f.billable {
		billable = "yes"
	}
	row("billable", theme.Value.Render(billable))

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(theme.Error.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("tab/shift+tab move • ctrl+b billable • enter save • esc cancel"))
	return theme.Border.Render(b.String())
}
