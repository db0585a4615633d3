package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the day-view keybindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Toggle   key.Binding
	Split    key.Binding
	Shift    key.Binding
	Delete   key.Binding
	Missed   key.Binding
	New      key.Binding
	Grab     key.Binding
	Resize   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Force    key.Binding
	Relocate key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("h", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab/l", "next day"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start/finish"),
		),
		Split: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "split"),
		),
		Shift: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shift"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Missed: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark missed"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new box"),
		),
		Grab: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grab/move"),
		),
		Resize: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resize"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Force: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "force save"),
		),
		Relocate: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "next free slot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
