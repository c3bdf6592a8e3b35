package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Calculate key.Binding
	Accept    key.Binding
	Complete  key.Binding
	Prev      key.Binding
	Next      key.Binding
	TagMenu   key.Binding
	Clear     key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Calculate: key.NewBinding(key.WithKeys("ctrl+r", "f5"), key.WithHelp("ctrl+r", "calculate")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		Complete:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept suggestion")),
		Prev:      key.NewBinding(key.WithKeys("up")),
		Next:      key.NewBinding(key.WithKeys("down")),
		TagMenu:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tag menu")),
		Clear:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Calculate, k.Complete, k.TagMenu, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Accept, k.Prev, k.Next}}
}
