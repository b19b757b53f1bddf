package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	save    key.Binding
	newNote key.Binding
	encrypt key.Binding
	decrypt key.Binding
	share   key.Binding
	qr      key.Binding
	tab     key.Binding
	enter   key.Binding
	esc     key.Binding
	quit    key.Binding
}

var keys = keyMap{
	save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	newNote: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
	encrypt: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "encrypt")),
	decrypt: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "decrypt")),
	share:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "share link")),
	qr:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "qr code")),
	tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch field")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

func helpLine() string {
	out := ""
	for i, b := range []key.Binding{keys.save, keys.newNote, keys.encrypt, keys.decrypt, keys.share, keys.qr, keys.tab, keys.quit} {
		if i > 0 {
			out += "  "
		}
		out += b.Help().Key + " " + b.Help().Desc
	}
	return out
}
