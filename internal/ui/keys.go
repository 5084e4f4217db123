package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Logs       key.Binding

	// Catalog actions
	Search        key.Binding
	Favorites     key.Binding
	Like          key.Binding
	Delete        key.Binding
	Create        key.Binding
	Edit          key.Binding
	Open          key.Binding
	OpenByID      key.Binding
	Retry         key.Binding
	PrevPage      key.Binding
	NextPage      key.Binding
	CyclePerPage  key.Binding
	ToggleFocus   key.Binding
	ToggleFocusRv key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Forms and prompts
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log view"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Favorites: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Favorites only"),
		),
		Like: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Like/unlike"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),
		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New product"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit product"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open detail"),
		),
		OpenByID: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Open by id"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "left", "h"),
			key.WithHelp("[/←", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "right", "l"),
			key.WithHelp("]/→", "Next page"),
		),
		CyclePerPage: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Cycle page size"),
		),
		ToggleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch pane"),
		),
		ToggleFocusRv: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Switch pane"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Scroll down"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "No"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.ToggleFocus},
		{k.PrevPage, k.NextPage, k.CyclePerPage, k.Retry},
		{k.Search, k.Favorites, k.Like, k.Delete},
		{k.Create, k.Edit, k.Open, k.OpenByID},
		{k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
