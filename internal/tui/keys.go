package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Raw key strings.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
)

// KeyMap holds the members view bindings.
type KeyMap struct {
	Refresh key.Binding
	Retry   key.Binding
	Open    key.Binding
	Edit    key.Binding
	Copy    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "refresh")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Open:    key.NewBinding(key.WithKeys(keyEnter), key.WithHelp("enter", "open")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy handle")),
		Back:    key.NewBinding(key.WithKeys(keyEsc, keyBackspace), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys(keyQuit, keyCtrlC), key.WithHelp("q", "quit")),
	}
}

// helpLine renders bindings as "key desc · key desc".
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
