package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Dot      key.Binding
	Dash     key.Binding
	Erase    key.Binding
	Commit   key.Binding
	Up       key.Binding
	Recovery key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Dot: key.NewBinding(
			key.WithKeys(".", "down"),
			key.WithHelp(".", "dot"),
		),
		Dash: key.NewBinding(
			key.WithKeys("-", "shift+down"),
			key.WithHelp("-", "dash"),
		),
		Erase: key.NewBinding(
			key.WithKeys("left", "backspace"),
			key.WithHelp("←", "erase"),
		),
		Commit: key.NewBinding(
			key.WithKeys("right", "enter"),
			key.WithHelp("→", "letter / send"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
		),
		Recovery: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "recovery"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dot, k.Dash, k.Commit, k.Erase, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dot, k.Dash},
		{k.Commit, k.Erase},
		{k.Recovery, k.Help, k.Quit},
	}
}
