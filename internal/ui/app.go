package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/timeentry"
	"github.com/ramanasai/tally/internal/timeinput"
	"github.com/ramanasai/tally/internal/utils"
)

// Outbox keeps placeholders across sessions; see db.Outbox.
type Outbox interface {
	Put(ctx context.Context, e timeentry.TimeEntry) error
	Drop(ctx context.Context, id string) error
	List(ctx context.Context) ([]timeentry.TimeEntry, error)
}

type Options struct {
	Context context.Context
	Cache   *timeentry.Cache
	Outbox  Outbox
	Log     *slog.Logger
	Date    string // YYYY-MM-DD shown first
	Theme   string
	Notify  func(error) // optional, e.g. a desktop notification
}

type mode int

const (
	modeDay mode = iota
	modeForm
	modeConfirmDelete
)

// Model is the day view. It owns the cache: every Settle runs in Update,
// and repository I/O only ever happens inside a tea.Cmd.
type Model struct {
	ctx    context.Context
	cache  *timeentry.Cache
	outbox Outbox
	log    *slog.Logger
	notify func(error)
	theme  Theme

	date    string
	entries []timeentry.TimeEntry
	cursor  int
	mode    mode
	form    form

	// loadSeq increases per day load; results from older loads are dropped.
	loadSeq int
	loading bool
	initCmd tea.Cmd

	// flushing is set while a sync's Create calls are in flight; unsaved
	// rows cannot be edited or deleted until it settles.
	flushing bool

	status    string
	statusErr bool
}

type (
	loadedMsg struct {
		seq      int
		date     string
		settle   timeentry.Settle[[]timeentry.TimeEntry]
		queued   []timeentry.TimeEntry
		queueErr error
	}
	savedMsg struct {
		settle timeentry.Settle[timeentry.TimeEntry]
	}
	removedMsg struct {
		id     string
		settle timeentry.Settle[struct{}]
	}
	queuedMsg struct {
		queued []timeentry.TimeEntry
		err    error
	}
	flushedMsg struct {
		pending []timeentry.TimeEntry
		settle  timeentry.Settle[int]
	}
	outboxMsg struct {
		op  string
		err error
	}
)

func New(opts Options) Model {
	m := Model{
		ctx:    opts.Context,
		cache:  opts.Cache,
		outbox: opts.Outbox,
		log:    opts.Log,
		notify: opts.Notify,
		theme:  ThemeByName(opts.Theme),
		date:   opts.Date,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.notify == nil {
		m.notify = func(error) {}
	}
	if m.date == "" {
		m.date = time.Now().Format(timeentry.DateLayout)
	}
	m.initCmd = m.load()
	return m
}

func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// load starts a LoadForDate for the current day and re-reads the outbox so
// placeholders for that day stay visible after the merge.
func (m *Model) load() tea.Cmd {
	m.loadSeq++
	seq, date, ctx, outbox := m.loadSeq, m.date, m.ctx, m.outbox
	call, err := m.cache.BeginLoadForDate(date)
	if err != nil {
		m.setError(err)
		return nil
	}
	m.loading = true
	return func() tea.Msg {
		msg := loadedMsg{seq: seq, date: date, settle: call(ctx)}
		if outbox != nil {
			msg.queued, msg.queueErr = outbox.List(ctx)
		}
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.loadSeq {
			m.log.Debug("dropping stale load", slog.String("date", msg.date))
			return m, nil
		}
		m.loading = false
		if _, err := msg.settle(); err != nil {
			m.setError(err)
		} else {
			m.setStatus("")
		}
		for _, e := range msg.queued {
			if e.Date == msg.date {
				_ = m.cache.Adopt(e)
			}
		}
		if msg.queueErr != nil {
			m.log.Warn("outbox unavailable", slog.Any("err", msg.queueErr))
		}
		m.refresh()
		return m, nil

	case savedMsg:
		e, err := msg.settle()
		m.refresh()
		switch {
		case err != nil && e.Local():
			m.setError(fmt.Errorf("kept locally, press s to retry: %w", err))
			m.notify(err)
			return m, m.outboxPut(e)
		case err != nil:
			m.setError(err)
			return m, nil
		case e.Local():
			m.setStatus("updated unsaved entry")
			return m, m.outboxPut(e)
		default:
			m.setStatus("saved " + e.StartTime.String() + "–" + e.EndTime.String())
			return m, nil
		}

	case removedMsg:
		if _, err := msg.settle(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.refresh()
		m.setStatus("deleted")
		if timeentry.IsLocalID(msg.id) {
			return m, m.outboxDrop(msg.id)
		}
		return m, nil

	case queuedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		for _, e := range msg.queued {
			_ = m.cache.Adopt(e)
		}
		pending := m.cache.Unsaved()
		if len(pending) == 0 {
			m.setStatus("nothing to sync")
			return m, nil
		}
		call, ctx := m.cache.BeginFlushUnsaved(), m.ctx
		m.flushing = true
		m.setStatus(fmt.Sprintf("syncing %d entries…", len(pending)))
		return m, func() tea.Msg { return flushedMsg{pending: pending, settle: call(ctx)} }

	case flushedMsg:
		m.flushing = false
		saved, err := msg.settle()
		m.refresh()
		var cmds []tea.Cmd
		for _, p := range msg.pending {
			if _, still := m.cache.Get(p.ID); !still {
				cmds = append(cmds, m.outboxDrop(p.ID))
			}
		}
		if err != nil {
			m.setError(fmt.Errorf("synced %d, %d left: %w", saved, len(m.cache.Unsaved()), err))
			m.notify(err)
		} else {
			m.setStatus(fmt.Sprintf("synced %d entries", saved))
		}
		return m, tea.Batch(cmds...)

	case outboxMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("outbox %s: %w", msg.op, msg.err))
		}
		return m, nil

	case timeinput.ChangedMsg:
		// the form reads the editors directly
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateDay(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		return m.shiftDay(-1)
	case "right", "l":
		return m.shiftDay(1)
	case "t":
		m.date = time.Now().Format(timeentry.DateLayout)
		cmd := m.load()
		return m, cmd
	case "r":
		cmd := m.load()
		return m, cmd
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "a", "n":
		m.form = newForm(m.theme, nil, m.known(func(e timeentry.TimeEntry) string { return e.ClientID }),
			m.known(func(e timeentry.TimeEntry) string { return e.ActivityID }))
		m.mode = modeForm
		return m, nil
	case "e", "enter":
		if e, ok := m.selected(); ok {
			if m.busy(e) {
				return m, nil
			}
			m.form = newForm(m.theme, &e, m.known(func(e timeentry.TimeEntry) string { return e.ClientID }),
				m.known(func(e timeentry.TimeEntry) string { return e.ActivityID }))
			m.mode = modeForm
			return m, nil
		}
	case "d", "delete":
		if e, ok := m.selected(); ok && !m.busy(e) {
			m.mode = modeConfirmDelete
		}
	case "s":
		if m.flushing {
			return m, nil
		}
		if m.outbox == nil {
			return m, func() tea.Msg { return queuedMsg{} }
		}
		ctx, outbox := m.ctx, m.outbox
		return m, func() tea.Msg {
			q, err := outbox.List(ctx)
			return queuedMsg{queued: q, err: err}
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeDay
	if msg.String() != "y" {
		m.setStatus("delete cancelled")
		return m, nil
	}
	e, ok := m.selected()
	if !ok {
		return m, nil
	}
	call, err := m.cache.BeginRemove(e.ID)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	ctx, id := m.ctx, e.ID
	return m, func() tea.Msg { return removedMsg{id: id, settle: call(ctx)} }
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.suggesting() {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "esc":
		m.mode = modeDay
		return m, nil
	case "tab", "down":
		return m, m.form.setFocus(m.form.focus + 1)
	case "shift+tab", "up":
		return m, m.form.setFocus(m.form.focus - 1)
	case "ctrl+b":
		m.form.billable = !m.form.billable
		return m, nil
	case "enter":
		return m.submit()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	date := m.date
	if m.form.editing.ID != "" {
		date = m.form.editing.Date
	}
	d, err := m.form.draft(date)
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	var call timeentry.Call[timeentry.TimeEntry]
	if m.form.editing.ID == "" {
		call, err = m.cache.BeginAdd(d)
	} else {
		call, err = m.cache.BeginUpdate(d.WithID(m.form.editing.ID))
	}
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.mode = modeDay
	m.setStatus("saving…")
	ctx := m.ctx
	return m, func() tea.Msg { return savedMsg{settle: call(ctx)} }
}

func (m Model) shiftDay(n int) (tea.Model, tea.Cmd) {
	next, err := utils.ShiftDay(m.date, n)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.date = next
	m.cursor = 0
	m.refresh()
	cmd := m.load()
	return m, cmd
}

func (m Model) outboxPut(e timeentry.TimeEntry) tea.Cmd {
	if m.outbox == nil {
		return nil
	}
	ctx, outbox := m.ctx, m.outbox
	return func() tea.Msg { return outboxMsg{op: "put", err: outbox.Put(ctx, e)} }
}

func (m Model) outboxDrop(id string) tea.Cmd {
	if m.outbox == nil {
		return nil
	}
	ctx, outbox := m.ctx, m.outbox
	return func() tea.Msg { return outboxMsg{op: "drop", err: outbox.Drop(ctx, id)} }
}

func (m *Model) refresh() {
	m.entries = m.cache.ForDate(m.date)
	if m.cursor >= len(m.entries) {
		m.cursor = max(len(m.entries)-1, 0)
	}
}

// busy reports an unsaved entry that a running sync may be creating.
func (m *Model) busy(e timeentry.TimeEntry) bool {
	if !m.flushing || !e.Local() {
		return false
	}
	m.setStatus("sync in progress, try again when it finishes")
	return true
}

func (m Model) selected() (timeentry.TimeEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return timeentry.TimeEntry{}, false
	}
	return m.entries[m.cursor], true
}

// known collects completion candidates from everything cached.
func (m Model) known(field func(timeentry.TimeEntry) string) []string {
	var out []string
	for _, e := range m.cache.All() {
		out = append(out, field(e))
	}
	return out
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
	switch {
	case errors.Is(err, timeentry.ErrAuth):
		m.status = "not authorized: check remote.token (" + err.Error() + ")"
	case errors.Is(err, timeentry.ErrNetwork):
		m.status = "offline: " + err.Error()
	}
	m.log.Warn("tui", slog.Any("err", err))
}

func (m Model) View() string {
	if m.mode == modeForm {
		return m.form.view(m.theme)
	}

	var b strings.Builder
	day := m.date
	if t, err := time.Parse(timeentry.DateLayout, m.date); err == nil {
		day = t.Format("Mon 2006-01-02")
	}
	b.WriteString(m.theme.Title.Render("Tally"))
	b.WriteString("  ")
	b.WriteString(m.theme.Value.Render(day))
	b.WriteString("  ")
	b.WriteString(m.theme.Label.Render("total " + clock.FormatMinutes(m.cache.TotalMinutes(m.date))))
	if m.loading {
		b.WriteString(m.theme.Hint.Render("  loading…"))
	}
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(m.theme.Hint.Render("  no entries, press a to add one"))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		line := fmt.Sprintf("%s–%s  %7s  %-12s %-10s %s",
			e.StartTime, e.EndTime, clock.FormatMinutes(e.Duration), e.ClientID, e.ActivityID, e.Description)
		if e.Local() {
			line += "  " + m.theme.Unsaved.Render("unsaved")
		}
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.mode == modeConfirmDelete:
		b.WriteString(m.theme.Error.Render("delete selected entry? y/N"))
	case m.statusErr:
		b.WriteString(m.theme.Error.Render(m.status))
	case m.status != "":
		b.WriteString(m.theme.Success.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Hint.Render("←/→ day • t today • ↑/↓ select • a add • e edit • d delete • s sync • r reload • q quit"))
	return b.String()
}
