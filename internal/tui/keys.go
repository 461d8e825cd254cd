package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Contact  key.Binding
	CardNext key.Binding
	CardPrev key.Binding
	Open     key.Binding
	Close    key.Binding
	Live     key.Binding
	Source   key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " ", "f")),
		Top:      key.NewBinding(key.WithKeys("home", "g")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G")),
		Next:     key.NewBinding(key.WithKeys("tab")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab")),
		Contact:  key.NewBinding(key.WithKeys("c")),
		CardNext: key.NewBinding(key.WithKeys("]", "right", "l")),
		CardPrev: key.NewBinding(key.WithKeys("[", "left", "h")),
		Open:     key.NewBinding(key.WithKeys("enter")),
		Close:    key.NewBinding(key.WithKeys("esc", "q", "x")),
		Live:     key.NewBinding(key.WithKeys("o")),
		Source:   key.NewBinding(key.WithKeys("s")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}
