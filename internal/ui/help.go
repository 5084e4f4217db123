package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

func (m Model) helpSections() []helpSection {
	k := m.keys
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.ToggleFocus, k.Escape}},
		{"Paging", []key.Binding{k.PrevPage, k.NextPage, k.CyclePerPage, k.Retry}},
		{"Catalog", []key.Binding{k.Search, k.Favorites, k.Open, k.OpenByID}},
		{"Products", []key.Binding{k.Like, k.Create, k.Edit, k.Delete}},
		{"General", []key.Binding{k.Logs, k.CycleTheme, k.Help, k.Quit}},
	}
}

// commandHints returns the bindings shown in the command bar for the
// current view.
func (m Model) commandHints() []key.Binding {
	k := m.keys
	switch m.currentView {
	case ViewDetail:
		return []key.Binding{k.Escape, k.Like, k.Edit, k.Delete, k.Help}
	case ViewLogs:
		return []key.Binding{k.Escape, k.Bottom, k.Retry, k.Help}
	}
	if m.width < LayoutCompactWidth {
		return []key.Binding{k.Search, k.Like, k.Open, k.Help}
	}
	return []key.Binding{k.Search, k.Favorites, k.Like, k.Open, k.Create, k.PrevPage, k.NextPage, k.Help}
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	sections := m.helpSections()
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
