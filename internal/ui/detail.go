package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// resizeViewports sizes the detail and log viewports for the current
// layout.
func (m *Model) resizeViewports() {
	contentHeight := max(m.height-2-2, 1) // header, command bar, box borders

	previewWidth := m.width - m.width*45/100
	if m.width >= LayoutExtraWideWidth {
		previewWidth = m.width - m.width*30/100
	}
	if m.currentView == ViewDetail {
		previewWidth = m.width
	}
	m.detailViewport.Width = max(previewWidth-4, 1)
	m.detailViewport.Height = contentHeight

	m.logViewport.Width = max(m.width-4, 1)
	m.logViewport.Height = max(contentHeight-1, 1) // status line below the box
}

// updateDetailViewport re-renders the product shown in the preview pane
// or the detail view.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.resizeViewports()

	bgColor := m.theme.SurfaceAlt
	if m.focusedPane == 1 || m.currentView == ViewDetail {
		bgColor = m.theme.FocusBg
	}

	var content string
	if m.currentView == ViewDetail {
		if p, ok := m.store.Get(m.detailID); ok {
			content = m.renderProductDetail(p, m.detailViewport.Width, bgColor)
		} else {
			content = m.renderMissingDetail(bgColor)
		}
	} else if p, ok := m.selected(); ok {
		content = m.renderProductDetail(p, m.detailViewport.Width, bgColor)
	} else {
		content = m.theme.Styles().MutedText.Background(lipgloss.Color(bgColor)).Render("Select a product")
	}
	m.detailViewport.SetContent(content)
}

// renderDetail renders the full-screen detail view.
func (m Model) renderDetail() string {
	contentHeight := m.height - 2
	return m.renderTitledBox(m.detailTitle(), m.detailViewport.View(), m.width, contentHeight, true)
}

func (m Model) detailTitle() string {
	if p, ok := m.store.Get(m.detailID); ok {
		return p.Title
	}
	return "Product " + string(m.detailID)
}

// renderMissingDetail explains why the requested product is not shown.
func (m Model) renderMissingDetail(bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	id := string(m.detailID)

	switch {
	case m.detailLoading:
		return bg.Render(m.spinner.View(), styles.InfoText) + bg.Space() +
			bg.Render("Loading product "+id+"...", styles.MutedText)
	case m.snap.Status == catalog.StatusFailed:
		lines := []string{
			bg.Render("Could not load product "+id, styles.DangerText),
			"",
			bg.Render(m.snap.Error, styles.MutedText),
			"",
			bg.Render("r", styles.WarningText) + bg.Space() + bg.Render("retry", styles.MutedText) + bg.Spaces(2) +
				bg.Render("esc", styles.WarningText) + bg.Space() + bg.Render("back", styles.MutedText),
		}
		return strings.Join(lines, "\n")
	default:
		return bg.Render("Product "+id+" not found", styles.MutedText)
	}
}

// renderProductDetail renders every field of p as labelled lines.
func (m Model) renderProductDetail(p catalog.Product, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	field := func(label, value string, style lipgloss.Style) string {
		return bg.Render(padLabel(label), styles.MutedText) + bg.Render(value, style)
	}

	var lines []string
	lines = append(lines, bg.Render(p.Title, styles.Text.Bold(true)))

	var flags []string
	if m.snap.Liked[p.ID] {
		flags = append(flags, bg.Render("♥ liked", styles.LikeText))
	}
	if _, ok := m.snap.CreatedLocal[p.ID]; ok {
		flags = append(flags, bg.Render("created locally", styles.InfoText))
	} else if _, ok := m.snap.EditedLocal[p.ID]; ok {
		flags = append(flags, bg.Render("edited locally", styles.InfoText))
	}
	if len(flags) > 0 {
		lines = append(lines, bg.Join(flags, "  "))
	}
	lines = append(lines, "")

	lines = append(lines, field("ID", string(p.ID), styles.Text))
	lines = append(lines, field("Price", formatPrice(p), styles.AccentText))
	rating := formatRating(p)
	if rating == "" {
		rating = "n/a"
	}
	lines = append(lines, field("Rating", rating, styles.WarningText))
	if p.Thumbnail != "" {
		lines = append(lines, field("Thumbnail", truncate(p.Thumbnail, max(width-12, 10)), styles.FaintText))
	}

	lines = append(lines, "")
	lines = append(lines, bg.Render("Description", styles.MutedText))
	for _, l := range wrap(p.Description, max(width, 10)) {
		lines = append(lines, bg.Render(l, styles.Text))
	}

	return strings.Join(lines, "\n")
}

func padLabel(label string) string {
	const width = 11
	if len(label) >= width {
		return label + " "
	}
	return label + strings.Repeat(" ", width-len(label))
}
