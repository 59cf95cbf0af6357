package utils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/timeentry"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatCompact OutputFormat = "compact"
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatDefault, nil
	case FormatDefault, FormatTable, FormatJSON, FormatCSV, FormatCompact:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (default|table|json|csv|compact)", s)
	}
}

// RenderConfig contains configuration for output rendering
type RenderConfig struct {
	Format     OutputFormat
	Width      int
	ShowID     bool
	ShowClient bool
	Color      bool
}

// DefaultRenderConfig returns a default render configuration
func DefaultRenderConfig() *RenderConfig {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return &RenderConfig{
		Format:     FormatDefault,
		Width:      width,
		ShowID:     true,
		ShowClient: true,
		Color:      true,
	}
}

// EntryList is one rendered block of entries. From and To are inclusive days.
type EntryList struct {
	Entries      []timeentry.TimeEntry `json:"entries"`
	From         string                `json:"from"`
	To           string                `json:"to"`
	Total        int                   `json:"total"`
	TotalMinutes int                   `json:"totalMinutes"`
	Page         int                   `json:"page,omitempty"`
	TotalPages   int                   `json:"totalPages,omitempty"`
	Navigation   string                `json:"-"`
}

// NewEntryList totals entries and cuts out the requested page.
func NewEntryList(entries []timeentry.TimeEntry, from, to string, p *PaginationInfo) *EntryList {
	list := &EntryList{From: from, To: to, Total: len(entries)}
	for _, e := range entries {
		list.TotalMinutes += e.Duration
	}
	if p == nil {
		list.Entries = entries
		return list
	}
	list.Entries = Page(entries, p)
	list.Page, list.TotalPages = p.Current, p.TotalPages
	list.Navigation = p.FormatNavigation()
	return list
}

// Renderer handles output formatting
type Renderer struct {
	config *RenderConfig
	styles *Styles
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Time      lipgloss.Style
	Duration  lipgloss.Style
	Client    lipgloss.Style
	Text      lipgloss.Style
	Unsaved   lipgloss.Style
	Billable  lipgloss.Style
}

func NewRenderer(config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	return &Renderer{config: config, styles: initStyles(config.Color)}
}

func initStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title: plain.Bold(true), Separator: plain, Meta: plain, ID: plain, Time: plain,
			Duration: plain.Bold(true), Client: plain, Text: plain, Unsaved: plain, Billable: plain,
		}
	}
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		ID:        lipgloss.NewStyle().Faint(true),
		Time:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Duration:  lipgloss.NewStyle().Bold(true),
		Client:    lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")),
		Text:      lipgloss.NewStyle(),
		Unsaved:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")),
		Billable:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
	}
}

// RenderEntryList renders a list of entries according to the configured format
func (r *Renderer) RenderEntryList(list *EntryList) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return r.renderJSON(list)
	case FormatCSV:
		return r.renderCSV(list)
	case FormatTable:
		return r.renderTable(list), nil
	case FormatCompact:
		return r.renderCompact(list), nil
	default:
		return r.renderDefault(list), nil
	}
}

func (r *Renderer) rule() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 120)))
}

func (r *Renderer) renderDefault(list *EntryList) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("Time Entries"))
	b.WriteString("  ")
	if list.From == list.To {
		b.WriteString(r.styles.Meta.Render(list.From))
	} else {
		b.WriteString(r.styles.Meta.Render(list.From + " → " + list.To))
	}
	b.WriteString("\n")
	b.WriteString(r.rule())
	b.WriteString("\n")

	if len(list.Entries) == 0 {
		b.WriteString(r.styles.Meta.Render("  no entries"))
		b.WriteString("\n")
	}

	day := ""
	for _, e := range list.Entries {
		if e.Date != day && list.From != list.To {
			day = e.Date
			b.WriteString(r.styles.Title.Render(day))
			b.WriteString("\n")
		}
		b.WriteString(r.renderSingleEntry(e))
	}

	b.WriteString(r.rule())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d entries  total %s", list.Total, r.styles.Duration.Render(clock.FormatMinutes(list.TotalMinutes))))
	b.WriteString("\n")
	if list.Navigation != "" {
		b.WriteString(r.styles.Meta.Render(list.Navigation))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderSingleEntry(e timeentry.TimeEntry) string {
	var parts []string
	parts = append(parts, r.styles.Time.Render(e.StartTime.String()+"–"+e.EndTime.String()))
	parts = append(parts, r.styles.Duration.Render(fmt.Sprintf("%7s", clock.FormatMinutes(e.Duration))))
	if r.config.ShowClient {
		parts = append(parts, r.styles.Client.Render("["+e.ClientID+"]"))
	}
	if e.Billable {
		parts = append(parts, r.styles.Billable.Render("$"))
	}
	if e.Local() {
		parts = append(parts, r.styles.Unsaved.Render("unsaved"))
	} else if r.config.ShowID {
		parts = append(parts, r.styles.ID.Render(e.ID))
	}

	line := "  " + strings.Join(parts, "  ") + "\n"
	if e.Description != "" {
		line += r.styles.Text.Render("    "+e.Description) + "\n"
	}
	return line
}

func (r *Renderer) renderJSON(list *EntryList) (string, error) {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func (r *Renderer) renderCSV(list *EntryList) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "date", "start", "end", "duration_minutes", "client", "activity", "description", "billable", "invoiced", "type"})
	for _, e := range list.Entries {
		_ = w.Write([]string{
			e.ID,
			e.Date,
			e.StartTime.String(),
			e.EndTime.String(),
			strconv.Itoa(e.Duration),
			e.ClientID,
			e.ActivityID,
			e.Description,
			strconv.FormatBool(e.Billable),
			strconv.FormatBool(e.Invoiced),
			string(e.EntryType),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv: %w", err)
	}
	return b.String(), nil
}

func (r *Renderer) renderTable(list *EntryList) string {
	var b strings.Builder

	b.WriteString("Date\tStart\tEnd\tDuration\tClient\tDescription\n")
	b.WriteString(strings.Repeat("-", r.config.Width))
	b.WriteString("\n")
	for _, e := range list.Entries {
		b.WriteString(strings.Join([]string{
			e.Date,
			e.StartTime.String(),
			e.EndTime.String(),
			clock.FormatMinutes(e.Duration),
			e.ClientID,
			truncate(e.Description, 50),
		}, "\t"))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\t\t\t%s\n", clock.FormatMinutes(list.TotalMinutes)))
	return b.String()
}

func (r *Renderer) renderCompact(list *EntryList) string {
	var b strings.Builder
	for _, e := range list.Entries {
		line := fmt.Sprintf("%s %s-%s %s %s",
			e.Date,
			r.styles.Time.Render(e.StartTime.String()),
			r.styles.Time.Render(e.EndTime.String()),
			r.styles.Client.Render(e.ClientID),
			truncate(e.Description, 80))
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) > n {
		return string([]rune(s)[:n-3]) + "..."
	}
	return s
}
