package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Submit    key.Binding
	Focus     key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Edit      key.Binding
	Remove    key.Binding
	All       key.Binding
	Completed key.Binding
	Pending   key.Binding
	SelectAll key.Binding
	DeleteAll key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add/save")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "done")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		All:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Completed: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
		Pending:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pending")),
		SelectAll: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "select all")),
		DeleteAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Focus, k.Toggle, k.Edit, k.Remove, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Focus, k.Back},
		{k.Up, k.Down, k.Toggle, k.Edit, k.Remove},
		{k.All, k.Completed, k.Pending},
		{k.SelectAll, k.DeleteAll, k.Quit},
	}
}
