package timeinput

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChangedMsg is emitted by Model when the canonical value changes.
type ChangedMsg struct {
	ID    string
	Value string
}

// Model adapts Editor to Bubble Tea. It follows the bubbles convention of a
// value type whose Update returns the next model.
type Model struct {
	ID     string
	Prompt string

	PromptStyle      lipgloss.Style
	TextStyle        lipgloss.Style
	PlaceholderStyle lipgloss.Style
	CursorStyle      lipgloss.Style

	ed    *Editor
	focus bool
}

func NewModel(id, initial string) Model {
	m := Model{
		ID:               id,
		Prompt:           "> ",
		PromptStyle:      lipgloss.NewStyle(),
		TextStyle:        lipgloss.NewStyle(),
		PlaceholderStyle: lipgloss.NewStyle().Faint(true),
		CursorStyle:      lipgloss.NewStyle().Reverse(true),
	}
	m.ed = New(initial, nil)
	return m
}

func (m Model) Value() string      { return m.ed.Value() }
func (m Model) Buffer() string     { return m.ed.Buffer() }
func (m Model) Cursor() int        { return m.ed.Cursor() }
func (m Model) Complete() bool     { return m.ed.Complete() }
func (m Model) Focused() bool      { return m.focus }
func (m *Model) Focus()            { m.focus = true }
func (m *Model) Blur()             { m.focus = false }
func (m *Model) SetValue(v string) { m.ed.SetValue(v) }

// Editor exposes the underlying state machine, e.g. to read Clock().
func (m Model) Editor() *Editor { return m.ed }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focus {
		return m, nil
	}
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	before := m.ed.Value()
	switch k.Type {
	case tea.KeyRunes:
		for _, r := range k.Runes {
			m.ed.Digit(r)
		}
	case tea.KeyBackspace:
		m.ed.Backspace()
	case tea.KeyDelete:
		m.ed.Delete()
	case tea.KeyLeft:
		m.ed.Left()
	case tea.KeyRight:
		m.ed.Right()
	case tea.KeyHome, tea.KeyCtrlA:
		m.ed.Home()
	case tea.KeyEnd, tea.KeyCtrlE:
		m.ed.End()
	default:
		return m, nil
	}
	if v := m.ed.Value(); v != before {
		id := m.ID
		return m, func() tea.Msg { return ChangedMsg{ID: id, Value: v} }
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.PromptStyle.Render(m.Prompt))
	buf := m.ed.Buffer()
	for i := 0; i < len(buf); i++ {
		ch := string(buf[i])
		style := m.TextStyle
		if buf[i] == Placeholder {
			style = m.PlaceholderStyle
		}
		if m.focus && i == m.ed.Cursor() {
			style = m.CursorStyle
		}
		b.WriteString(style.Render(ch))
	}
	if m.focus && m.ed.Cursor() == End {
		b.WriteString(m.CursorStyle.Render(" "))
	}
	return b.String()
}
