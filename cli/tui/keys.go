package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines every binding of the browser
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Toggle        key.Binding
	SelectGroup   key.Binding
	Clear         key.Binding
	GroupBy       key.Binding
	Filter        key.Binding
	Delete        key.Binding
	Export        key.Binding
	Download      key.Binding
	Share         key.Binding
	Edit          key.Binding
	Upload        key.Binding
	Command       key.Binding
	TogglePreview key.Binding
	Refresh       key.Binding
	Logout        key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:        key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:           key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectGroup:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select group")),
		Clear:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		GroupBy:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "folder/category")),
		Filter:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Delete:        key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Export:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export zip")),
		Download:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "download")),
		Share:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		Edit:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "edit")),
		Upload:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Command:       key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		TogglePreview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Refresh:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Logout:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign out")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SelectGroup, k.Delete, k.Export, k.Edit, k.Command, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Toggle, k.SelectGroup, k.Clear, k.GroupBy, k.Filter},
		{k.Delete, k.Export, k.Download, k.Share, k.Edit, k.Upload},
		{k.Command, k.TogglePreview, k.Refresh, k.Logout, k.Help, k.Quit},
	}
}
