package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wirechat-client/internal/chat"
)

type keyMap struct {
	Send     key.Binding
	Newline  key.Binding
	SendNow  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		// Terminals do not report shift+enter, alt is the newline modifier.
		Newline: key.NewBinding(
			key.WithKeys("enter", "alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "newline"),
		),
		SendNow: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "➤"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Newline, k.SendNow, k.PageUp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline, k.SendNow},
		{k.PageUp, k.PageDown, k.Quit},
	}
}

// keyEvent reduces a terminal key press to what the composer needs.
// A bracketed paste is the terminal's in-progress composition.
func keyEvent(msg tea.KeyMsg) chat.KeyEvent {
	return chat.KeyEvent{
		Enter:     msg.Type == tea.KeyEnter,
		Shift:     msg.Alt,
		Composing: msg.Paste,
	}
}
