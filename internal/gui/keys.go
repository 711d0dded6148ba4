package gui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard navigation bindings.
type keyMap struct {
	MenuBar    key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Activate   key.Binding
	Close      key.Binding
	CycleTheme key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		MenuBar: key.NewBinding(
			key.WithKeys("f10"),
			key.WithHelp("f10", "Open menu bar"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/up", "Previous item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/down", "Next item"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("h/left", "Previous menu"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("l/right", "Next menu"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Activate"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close menu"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
	}
}
