package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Back      key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Reload    key.Binding
	Scroll    key.Binding
}

var keys = keyMap{
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "stage")),
	Right:     key.NewBinding(key.WithKeys("l", "right")),
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "task")),
	Down:      key.NewBinding(key.WithKeys("j", "down")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	// Handled by the viewport's own key map; listed for help only.
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
}

func (k keyMap) boardHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Open, k.Reload, k.Quit}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Reload, k.Back}
}
