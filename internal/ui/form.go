package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/five82/shelf/internal/catalog"
)

// Form field indexes.
const (
	fieldTitle = iota
	fieldDescription
	fieldPrice
	fieldRating
	fieldThumbnail
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Price", "Rating", "Thumbnail URL"}

var fieldNames = [fieldCount]string{"title", "description", "price", "rating", "thumbnail"}

// productForm is the create/edit modal. Submitting a valid form emits
// formSubmittedMsg; an invalid one keeps the modal open and shows the
// first problem next to its field.
type productForm struct {
	title  string
	id     catalog.ID // empty when creating
	inputs [fieldCount]textinput.Model
	focus  int
	err    *catalog.FieldError
}

func newProductForm(title string, id catalog.ID, d catalog.Draft) *productForm {
	f := &productForm{title: title, id: id}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 500
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Placeholder = "at least 2 characters"
	f.inputs[fieldDescription].Placeholder = "at least 10 characters"
	f.inputs[fieldPrice].Placeholder = "optional, e.g. 19.99"
	f.inputs[fieldRating].Placeholder = "optional, 0 to 5"
	f.inputs[fieldThumbnail].Placeholder = "optional, https://..."

	f.inputs[fieldTitle].SetValue(d.Title)
	f.inputs[fieldDescription].SetValue(d.Description)
	if d.Price.Valid {
		f.inputs[fieldPrice].SetValue(d.Price.Decimal.String())
	}
	if d.Rating != nil {
		f.inputs[fieldRating].SetValue(strconv.FormatFloat(*d.Rating, 'f', -1, 64))
	}
	f.inputs[fieldThumbnail].SetValue(d.Thumbnail)

	f.inputs[fieldTitle].Focus()
	return f
}

// Update implements Modal.
func (f *productForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd, false
	}

	switch km.Type {
	case tea.KeyEsc:
		return f, nil, true
	case tea.KeyCtrlC:
		return f, tea.Quit, true
	case tea.KeyTab, tea.KeyDown:
		return f, f.setFocus(f.focus + 1), false
	case tea.KeyShiftTab, tea.KeyUp:
		return f, f.setFocus(f.focus - 1), false
	}

	if key.Matches(km, keys.Confirm) {
		if f.focus < fieldCount-1 {
			return f, f.setFocus(f.focus + 1), false
		}
		return f.submit()
	}
	if km.Type == tea.KeyCtrlS {
		return f.submit()
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *productForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// submit validates the form. Valid drafts close the modal and emit
// formSubmittedMsg.
func (f *productForm) submit() (Modal, tea.Cmd, bool) {
	d, err := f.draft()
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		var fe *catalog.FieldError
		if !errors.As(err, &fe) {
			fe = &catalog.FieldError{Field: "title", Message: err.Error()}
		}
		f.err = fe
		for i, name := range fieldNames {
			if name == fe.Field {
				return f, f.setFocus(i), false
			}
		}
		return f, nil, false
	}

	f.err = nil
	id := f.id
	return f, func() tea.Msg { return formSubmittedMsg{id: id, draft: d} }, true
}

// draft parses the inputs. Blank optional fields stay unset.
func (f *productForm) draft() (catalog.Draft, error) {
	d := catalog.Draft{
		Title:       f.inputs[fieldTitle].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Thumbnail:   strings.TrimSpace(f.inputs[fieldThumbnail].Value()),
	}

	if raw := strings.TrimSpace(f.inputs[fieldPrice].Value()); raw != "" {
		price, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
		if err != nil {
			return d, &catalog.FieldError{Field: "price", Message: "must be a number"}
		}
		d.Price = decimal.NewNullDecimal(price)
	}

	if raw := strings.TrimSpace(f.inputs[fieldRating].Value()); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return d, &catalog.FieldError{Field: "rating", Message: "must be a number"}
		}
		d.Rating = &rating
	}

	return d, nil
}

// View implements Modal.
func (f *productForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	modalWidth := min(max(width-8, 30), 70)
	inputWidth := modalWidth - 6

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n\n")

	for i := range f.inputs {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		if f.err != nil && f.err.Field == fieldNames[i] {
			b.WriteString("  ")
			b.WriteString(styles.DangerText.Render(f.err.Message))
		}
		b.WriteString("\n")

		in := f.inputs[i]
		in.Width = inputWidth
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	hint := styles.WarningText.Render("tab") + styles.MutedText.Render(" next  ") +
		styles.WarningText.Render("enter") + styles.MutedText.Render(" save on last field  ") +
		styles.WarningText.Render("ctrl+s") + styles.MutedText.Render(" save  ") +
		styles.WarningText.Render("esc") + styles.MutedText.Render(" cancel")
	b.WriteString(hint)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// confirmModal asks before soft-deleting a product.
type confirmModal struct {
	id    catalog.ID
	title string
}

func newConfirmModal(p catalog.Product) *confirmModal {
	return &confirmModal{id: p.ID, title: p.Title}
}

// Update implements Modal.
func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		id, title := c.id, c.title
		return c, func() tea.Msg { return deleteConfirmedMsg{id: id, title: title} }, true
	case key.Matches(km, keys.No):
		return c, nil, true
	case km.Type == tea.KeyCtrlC:
		return c, tea.Quit, true
	}
	return c, nil, false
}

// View implements Modal.
func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	content := styles.Text.Bold(true).Render("Delete product?") + "\n\n" +
		styles.Text.Render(truncate(c.title, 50)) + "\n" +
		styles.FaintText.Render("id "+string(c.id)) + "\n\n" +
		styles.WarningText.Render("y") + styles.MutedText.Render(" delete  ") +
		styles.WarningText.Render("n") + styles.MutedText.Render(" cancel")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
