package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AutocompleteModel is a text input that offers completions from a fixed
// candidate list, e.g. the client ids already present in the cache.
type AutocompleteModel struct {
	input          textinput.Model
	candidates     []string
	suggestions    []string
	showing        bool
	selected       int
	style          lipgloss.Style
	maxSuggestions int
}

func NewAutocomplete(placeholder string, maxSuggestions int) AutocompleteModel {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 64

	return AutocompleteModel{
		input:          input,
		maxSuggestions: maxSuggestions,
		style:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetCandidates replaces the completion source; duplicates and blanks are dropped.
func (m *AutocompleteModel) SetCandidates(values []string) {
	seen := map[string]bool{}
	m.candidates = m.candidates[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" && !seen[v] {
			seen[v] = true
			m.candidates = append(m.candidates, v)
		}
	}
	sort.Strings(m.candidates)
}

// Update handles the autocomplete logic
func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyTab:
			if m.showing {
				m.selected = (m.selected + 1) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyShiftTab:
			if m.showing {
				m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyEnter:
			if m.showing {
				m.input.SetValue(m.suggestions[m.selected])
				m.input.CursorEnd()
				m.hide()
				return m, nil
			}
		case tea.KeyEscape:
			if m.showing {
				m.hide()
				return m, nil
			}
		}
	}

	old := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != old {
		m.refresh()
	}
	return m, cmd
}

func (m *AutocompleteModel) refresh() {
	q := strings.ToLower(m.input.Value())
	m.suggestions = m.suggestions[:0]
	if q != "" {
		for _, c := range m.candidates {
			if len(m.suggestions) == m.maxSuggestions {
				break
			}
			if lc := strings.ToLower(c); strings.HasPrefix(lc, q) && lc != q {
				m.suggestions = append(m.suggestions, c)
			}
		}
	}
	m.showing = len(m.suggestions) > 0
	m.selected = 0
}

func (m *AutocompleteModel) hide() {
	m.showing = false
	m.selected = 0
}

// View renders the autocomplete input and suggestions
func (m AutocompleteModel) View() string {
	var content strings.Builder
	content.WriteString(m.input.View())

	if m.showing {
		for i, suggestion := range m.suggestions {
			content.WriteString("\n")
			if i == m.selected {
				content.WriteString(m.style.Copy().Foreground(lipgloss.Color("12")).Render("▶ " + suggestion))
			} else {
				content.WriteString(m.style.Render("  " + suggestion))
			}
		}
	}
	return content.String()
}

func (m AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) SetValue(value string) {
	m.input.SetValue(value)
	m.hide()
}

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.hide()
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.hide()
}

func (m AutocompleteModel) Focused() bool { return m.input.Focused() }

func (m AutocompleteModel) Showing() bool { return m.showing }

