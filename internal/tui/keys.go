package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Submit   key.Binding
	Next     key.Binding
	Prev     key.Binding
	New      key.Binding
	Version1 key.Binding
	Version2 key.Binding
	Report   key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "analyze"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new analysis"),
	),
	Version1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "copy text v1"),
	),
	Version2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "copy text v2"),
	),
	Report: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "report"),
	),
}
