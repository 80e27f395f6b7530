package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by all views
type KeyMap struct {
	Quit          key.Binding
	Back          key.Binding
	New           key.Binding
	Enter         key.Binding
	Delete        key.Binding
	Edit          key.Binding
	Tab           key.Binding
	Up            key.Binding
	Down          key.Binding
	Search        key.Binding
	Filter        key.Binding
	ShowCompleted key.Binding
	Status        key.Binding
	Priority      key.Binding
	Team          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "done"),
		),
		Status: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "status"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Team: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "team"),
		),
	}
}
