package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("shelf", styles.Logo),
		m.renderStatusBadge(styles, bg),
	}

	parts = append(parts,
		bg.Render("Items:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.view.VisibleCount), styles.Text),
	)

	favStyle := styles.MutedText
	if m.view.FavoritesCount > 0 {
		favStyle = styles.LikeText
	}
	parts = append(parts,
		bg.Render("♥", favStyle)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.view.FavoritesCount), favStyle),
	)

	parts = append(parts,
		bg.Render("Page:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d/%d", m.view.Page, m.view.LastPage), styles.Text),
	)

	if !compact {
		parts = append(parts,
			bg.Render("Per page:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.view.PerPage), styles.Text),
		)
	}

	if m.snap.FavoritesOnly {
		parts = append(parts, bg.Render("favorites only", styles.LikeText))
	}
	if q := strings.TrimSpace(m.snap.Query); q != "" && !m.searching {
		parts = append(parts,
			bg.Render("Query:", styles.MutedText)+bg.Space()+
				bg.Render(truncate(q, 24), styles.AccentText),
		)
	}

	if m.view.Status == catalog.StatusFailed && m.view.Error != "" {
		limit := 60
		if compact {
			limit = 24
		}
		parts = append(parts,
			bg.Render(truncate(m.view.Error, limit), styles.DangerText)+sep+
				bg.Render("r", styles.WarningText)+bg.Space()+
				bg.Render("retry", styles.MutedText),
		)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(styles.Header.Render(bg.Join(parts, "  ")))
}

// renderStatusBadge renders the fetch status, with a spinner while loading.
func (m Model) renderStatusBadge(styles Styles, bg BgStyle) string {
	status := m.view.Status
	label := titleCase(string(status))
	if status == catalog.StatusLoading {
		return bg.Render(m.spinner.View(), styles.InfoText) + bg.Space() +
			styles.StatusStyle(status).Render(label)
	}
	return styles.StatusStyle(status).Render(label)
}

// renderCommandBar renders the second header line: an active prompt, a
// transient notice or the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var content string
	switch {
	case m.searching:
		content = m.searchInput.View()
	case m.prompting:
		content = m.idInput.View()
	default:
		var hints []string
		for _, b := range m.commandHints() {
			h := b.Help()
			hints = append(hints, bg.Render(h.Key, styles.WarningText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
		}
		content = bg.Join(hints, "  ")
		if m.notice != "" {
			content = bg.Render(m.notice, styles.SuccessText) + bg.Spaces(3) + content
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Padding(0, 1).
		Render(content)
}
