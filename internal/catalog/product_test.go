package catalog

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidate(t *testing.T) {
	valid := Draft{Title: "Lamp", Description: "Brass desk lamp"}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		edit  func(*Draft)
		field string
	}{
		{"short title", func(d *Draft) { d.Title = " L " }, "title"},
		{"short description", func(d *Draft) { d.Description = "too short" }, "description"},
		{"negative price", func(d *Draft) { d.Price = decimal.NewNullDecimal(decimal.NewFromInt(-1)) }, "price"},
		{"rating above five", func(d *Draft) { d.Rating = ptr(5.5) }, "rating"},
		{"negative rating", func(d *Draft) { d.Rating = ptr(-0.1) }, "rating"},
		{"relative thumbnail", func(d *Draft) { d.Thumbnail = "/img/lamp.png" }, "thumbnail"},
		{"ftp thumbnail", func(d *Draft) { d.Thumbnail = "ftp://example.com/lamp.png" }, "thumbnail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.edit(&d)

			err := d.Validate()

			var fe *FieldError
			require.True(t, errors.As(err, &fe), "want *FieldError, got %v", err)
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestDraftValidateAcceptsOptionalFields(t *testing.T) {
	d := Draft{
		Title:       "Lamp",
		Description: "Brass desk lamp",
		Price:       decimal.NewNullDecimal(decimal.Zero),
		Rating:      ptr(5.0),
		Thumbnail:   "https://cdn.example.com/lamp.png",
	}
	assert.NoError(t, d.Validate())
}

func TestDraftProductTrimsText(t *testing.T) {
	p := Draft{Title: "  Lamp ", Description: " Brass desk lamp\n"}.Product("abc")

	assert.Equal(t, ID("abc"), p.ID)
	assert.Equal(t, "Lamp", p.Title)
	assert.Equal(t, "Brass desk lamp", p.Description)
	assert.False(t, p.HasPrice())
}

func TestDraftDiffOnlyCarriesChanges(t *testing.T) {
	orig := chair()
	d := DraftFrom(orig)
	assert.True(t, d.Diff(orig).IsZero())

	d.Title = "Stool"
	d.Price = decimal.NewNullDecimal(decimal.RequireFromString("10"))
	patch := d.Diff(orig)

	require.NotNil(t, patch.Title)
	require.NotNil(t, patch.Price)
	assert.Nil(t, patch.Description)
	assert.Equal(t, "Stool", *patch.Title)

	got := patch.Apply(orig)
	assert.Equal(t, "Stool", got.Title)
	assert.True(t, got.Price.Decimal.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, orig.Description, got.Description)
}

func TestPatchMergeLaterFieldsWin(t *testing.T) {
	merged := Patch{Title: ptr("a"), Rating: ptr(1.0)}.Merge(Patch{Title: ptr("b")})

	require.NotNil(t, merged.Title)
	assert.Equal(t, "b", *merged.Title)
	require.NotNil(t, merged.Rating)
	assert.InDelta(t, 1.0, *merged.Rating, 0.0001)
}
