// Package keys defines keyboard shortcuts for the fluckybackup TUI.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Main screen
	Slack   key.Binding
	Refresh key.Binding
	Clear   key.Binding
	Quit    key.Binding

	// Slack dialog
	Next    key.Binding
	Prev    key.Binding
	Enter   key.Binding
	Confirm key.Binding
	Test    key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default keyboard shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Slack: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "slack settings"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "activate"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "ok"),
		),
		Test: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "test"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns short help text for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Slack,
		k.Refresh,
		k.Clear,
		k.Quit,
	}
}

// DialogHelp returns the bindings shown inside the Slack dialog.
func (k KeyMap) DialogHelp() []key.Binding {
	return []key.Binding{
		k.Next,
		k.Test,
		k.Confirm,
		k.Cancel,
	}
}
