package timeinput

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel_IgnoresKeysWhenBlurred(t *testing.T) {
	m := NewModel("start", "")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9")})
	if cmd != nil || m.Buffer() != "__:__" {
		t.Fatalf("blurred model reacted: %q", m.Buffer())
	}
}

func TestModel_EmitsChangedMsg(t *testing.T) {
	m := NewModel("start", "")
	m.Focus()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0900")})
	if m.Buffer() != "09:00" {
		t.Fatalf("buffer = %q", m.Buffer())
	}
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg, ok := cmd().(ChangedMsg)
	if !ok || msg.ID != "start" || msg.Value != "09:00" {
		t.Fatalf("unexpected msg %#v", msg)
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if cmd != nil {
		t.Fatalf("cursor move must not emit")
	}
	if m.Cursor() != 4 {
		t.Fatalf("cursor = %d", m.Cursor())
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if cmd == nil {
		t.Fatalf("backspace should emit")
	}
	if got := cmd().(ChangedMsg).Value; got != "09" {
		t.Fatalf("value after backspace = %q", got)
	}
	if m.Buffer() != "09:_0" {
		t.Fatalf("buffer = %q", m.Buffer())
	}
}

func TestModel_ViewKeepsBuffer(t *testing.T) {
	m := NewModel("end", "17:30")
	m.Prompt = ""
	if !strings.Contains(m.View(), "1") || !strings.Contains(m.View(), ":") {
		t.Fatalf("view = %q", m.View())
	}
}
