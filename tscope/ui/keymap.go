package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings for the treemap view
type KeyMap struct {
	Grow        key.Binding
	Shrink      key.Binding
	Expand      key.Binding
	ExpandPath  key.Binding
	Collapse    key.Binding
	CollapseAll key.Binding
	MoveLeft    key.Binding
	MoveDown    key.Binding
	MoveUp      key.Binding
	MoveRight   key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Grow: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "grow block"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "shrink block"),
		),
		Expand: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand"),
		),
		ExpandPath: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "expand path"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "collapse all"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "select left"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "select down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "select up"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l", "select right"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
