package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// renderCatalog renders the catalog view: product list on the left, a
// preview of the selected product on the right.
func (m Model) renderCatalog() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2 // header + command bar

	if len(m.view.Items) == 0 {
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(m.emptyMessage()))
	}

	// Compact: list only. Extra wide: 30% list. Default: 45% list.
	listWidth := m.width
	switch {
	case m.width < LayoutCompactWidth:
	case m.width >= LayoutExtraWideWidth:
		listWidth = m.width * 30 / 100
	default:
		listWidth = m.width * 45 / 100
	}

	listFocused := m.focusedPane == 0
	listBg := m.theme.SurfaceAlt
	if listFocused {
		listBg = m.theme.FocusBg
	}
	listContent := m.renderProductRows(listWidth-2, contentHeight-3, listBg)
	footer := m.renderPager(listWidth-2, listBg)
	listPane := m.renderTitledBox(m.listTitle(), listContent+"\n"+footer, listWidth, contentHeight, listFocused)

	if listWidth == m.width {
		return listPane
	}

	previewWidth := m.width - listWidth
	previewPane := m.renderTitledBox("Preview", m.detailViewport.View(), previewWidth, contentHeight, m.focusedPane == 1)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

func (m Model) emptyMessage() string {
	switch {
	case m.view.Status == catalog.StatusLoading:
		return m.spinner.View() + " Loading products..."
	case m.view.Status == catalog.StatusFailed:
		return "Could not load products. Press r to retry."
	case m.snap.FavoritesOnly || strings.TrimSpace(m.snap.Query) != "":
		return "No products match the current filters"
	case m.view.Page > 1:
		return "Nothing on this page yet"
	default:
		return "No products"
	}
}

func (m Model) listTitle() string {
	title := "Products"
	if m.snap.FavoritesOnly {
		title = "Favorites"
	}
	return fmt.Sprintf("%s (%d)", title, m.view.VisibleCount)
}

// renderProductRows renders the current page as styled rows, scrolled so
// the selected row stays visible.
func (m Model) renderProductRows(width, height int, bgColor string) string {
	items := m.view.Items
	start := 0
	if height > 0 && m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}

	var lines []string
	for i := start; i < len(items); i++ {
		if height > 0 && len(lines) >= height {
			break
		}
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatProductRow(items[i], width, rowBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// formatProductRow formats one product row.
// Format: "♥ Title · $12.50 ★ 4.5"
func (m Model) formatProductRow(p catalog.Product, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	liked := m.snap.Liked[p.ID]
	heart := " "
	if liked {
		heart = "♥"
	}

	meta := formatPrice(p)
	if r := formatRating(p); r != "" {
		meta += " " + r
	}

	_, local := m.snap.CreatedLocal[p.ID]
	_, edited := m.snap.EditedLocal[p.ID]
	marker := ""
	switch {
	case local:
		marker = " new"
	case edited:
		marker = " *"
	}

	titleWidth := max(width-len([]rune(meta))-len(marker)-6, 8)

	var heartStyle, titleStyle, sepStyle, metaStyle, markerStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		heartStyle, titleStyle, sepStyle, metaStyle, markerStyle = selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		heartStyle = styles.LikeText
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		metaStyle = styles.MutedText
		markerStyle = styles.InfoText
	}

	return bg.Render(heart, heartStyle) + bg.Space() +
		bg.Render(truncate(p.Title, titleWidth), titleStyle) +
		bg.Render(marker, markerStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(meta, metaStyle)
}

// renderPager renders the page indicator under the list.
func (m Model) renderPager(width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	text := bg.Render("page", styles.FaintText) + bg.Space() +
		bg.Render(m.pager.View(), styles.MutedText)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bgColor)).
		Width(width).
		Align(lipgloss.Right).
		Render(text)
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
