package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/catalog"
)

func fillForm(f *productForm, values [fieldCount]string) {
	for i, v := range values {
		f.inputs[i].SetValue(v)
	}
}

func TestProductFormRejectsInvalidDraft(t *testing.T) {
	cases := []struct {
		name   string
		values [fieldCount]string
		field  string
	}{
		{"short title", [fieldCount]string{"L", "Brass desk lamp"}, "title"},
		{"short description", [fieldCount]string{"Lamp", "Brass"}, "description"},
		{"price not a number", [fieldCount]string{"Lamp", "Brass desk lamp", "cheap"}, "price"},
		{"negative price", [fieldCount]string{"Lamp", "Brass desk lamp", "-3"}, "price"},
		{"rating out of range", [fieldCount]string{"Lamp", "Brass desk lamp", "", "7"}, "rating"},
		{"bad thumbnail", [fieldCount]string{"Lamp", "Brass desk lamp", "", "", "lamp.png"}, "thumbnail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newProductForm("New product", "", catalog.Draft{})
			fillForm(f, tc.values)

			modal, cmd, closed := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS}, DefaultKeyMap())

			assert.False(t, closed)
			assert.Same(t, f, modal)
			require.NotNil(t, f.err)
			assert.Equal(t, tc.field, f.err.Field)
			assert.Equal(t, tc.field, fieldNames[f.focus], "focus moves to the failing field")
			if cmd != nil {
				_, isSubmit := cmd().(formSubmittedMsg)
				assert.False(t, isSubmit)
			}
		})
	}
}

func TestProductFormSubmitsValidDraft(t *testing.T) {
	f := newProductForm("New product", "", catalog.Draft{})
	fillForm(f, [fieldCount]string{"Lamp", "Brass desk lamp", "$19.99", "4.5", "https://cdn.example.com/lamp.png"})

	_, cmd, closed := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS}, DefaultKeyMap())

	require.True(t, closed)
	require.NotNil(t, cmd)
	msg, ok := cmd().(formSubmittedMsg)
	require.True(t, ok)
	assert.Empty(t, msg.id)
	assert.Equal(t, "Lamp", msg.draft.Title)
	assert.True(t, msg.draft.Price.Decimal.Equal(decimal.RequireFromString("19.99")))
	require.NotNil(t, msg.draft.Rating)
	assert.InDelta(t, 4.5, *msg.draft.Rating, 0.0001)
}

func TestProductFormEnterAdvancesThenSubmits(t *testing.T) {
	d := catalog.Draft{Title: "Chair", Description: "Wooden chair"}
	f := newProductForm("Edit product", "1", d)
	keys := DefaultKeyMap()

	for i := 0; i < fieldCount-1; i++ {
		_, _, closed := f.Update(tea.KeyMsg{Type: tea.KeyEnter}, keys)
		require.False(t, closed)
	}
	assert.Equal(t, fieldThumbnail, f.focus)

	_, cmd, closed := f.Update(tea.KeyMsg{Type: tea.KeyEnter}, keys)
	require.True(t, closed)
	msg := cmd().(formSubmittedMsg)
	assert.Equal(t, catalog.ID("1"), msg.id)
	assert.Equal(t, d, msg.draft)
}

func TestProductFormPrefillsOptionalFields(t *testing.T) {
	rating := 3.5
	f := newProductForm("Edit product", "1", catalog.Draft{
		Title:       "Chair",
		Description: "Wooden chair",
		Price:       decimal.NewNullDecimal(decimal.RequireFromString("49.99")),
		Rating:      &rating,
	})

	assert.Equal(t, "49.99", f.inputs[fieldPrice].Value())
	assert.Equal(t, "3.5", f.inputs[fieldRating].Value())
	assert.Empty(t, f.inputs[fieldThumbnail].Value())
}

func TestProductFormEscCancels(t *testing.T) {
	f := newProductForm("New product", "", catalog.Draft{})

	_, cmd, closed := f.Update(tea.KeyMsg{Type: tea.KeyEsc}, DefaultKeyMap())

	assert.True(t, closed)
	assert.Nil(t, cmd)
}

func TestConfirmModal(t *testing.T) {
	c := newConfirmModal(catalog.Product{ID: "7", Title: "Rug"})
	keys := DefaultKeyMap()

	_, cmd, closed := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, keys)
	assert.False(t, closed)
	assert.Nil(t, cmd)

	_, cmd, closed = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, keys)
	require.True(t, closed)
	assert.Equal(t, deleteConfirmedMsg{id: "7", title: "Rug"}, cmd())

	assert.Contains(t, c.View(GetTheme("Slate"), 80, 24), "Rug")
}
