package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the model reacts to.
type keyMap struct {
	Open       key.Binding
	Disconnect key.Binding
	Switch     key.Binding
	Sign       key.Binding
	Theme      key.Binding
	Copy       key.Binding
	Next       key.Binding
	Prev       key.Binding
	Up         key.Binding
	Down       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Disconnect: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
		Switch:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "switch network")),
		Sign:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign message")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy address")),
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next block")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev block")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Sign, k.Theme, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Disconnect, k.Switch},
		{k.Sign, k.Theme, k.Copy},
		{k.Next, k.Prev, k.Up, k.Down},
		{k.Help, k.Quit},
	}
}
