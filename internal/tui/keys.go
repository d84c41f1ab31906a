package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the grid editor.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Cell and row edits at the cursor.
	Click     key.Binding
	ToggleRow key.Binding

	// Brush selection. Display only: mouse gestures pick their brush from
	// the pressed cell.
	BrushInd   key.Binding
	BrushErr   key.Binding
	BrushSkip  key.Binding
	BrushClear key.Binding

	// Whole-grid fills.
	FillChecked key.Binding
	FillSkipped key.Binding
	ClearAll    key.Binding

	Confirm key.Binding
	Cancel  key.Binding

	Save key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (h/j/k/l) alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "right"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "first interval"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "last interval"),
	),
	Click: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "mark/unmark"),
	),
	ToggleRow: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "check/skip row"),
	),
	BrushInd: key.NewBinding(
		key.WithKeys("i", "I"),
		key.WithHelp("i", "ind brush"),
	),
	BrushErr: key.NewBinding(
		key.WithKeys("e", "E"),
		key.WithHelp("e", "err brush"),
	),
	BrushSkip: key.NewBinding(
		key.WithKeys("s", "S"),
		key.WithHelp("s", "skip brush"),
	),
	BrushClear: key.NewBinding(
		key.WithKeys("c", "C"),
		key.WithHelp("c", "clear brush"),
	),
	FillChecked: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fill all checked"),
	),
	FillSkipped: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "fill all skipped"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "clear all"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s", "w"),
		key.WithHelp("ctrl+s", "save"),
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

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.ToggleRow, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Click, k.ToggleRow, k.BrushInd, k.BrushErr, k.BrushSkip, k.BrushClear},
		{k.FillChecked, k.FillSkipped, k.ClearAll, k.Save, k.Help, k.Quit},
	}
}
