package catalog

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ID identifies a product. Remote ids are base-10 integers, local ids are UUIDs.
type ID string

// Product is the normalized catalog record.
type Product struct {
	ID          ID                  `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Rating      *float64            `json:"rating,omitempty"`
	Thumbnail   string              `json:"thumbnail,omitempty"`
}

// HasPrice reports whether the product carries a price.
func (p Product) HasPrice() bool {
	return p.Price.Valid
}

// Patch is a partial product update. Nil fields are left untouched.
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Thumbnail   *string          `json:"thumbnail,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Rating == nil && p.Thumbnail == nil
}

// Apply returns a copy of product with the patch merged in.
func (p Patch) Apply(product Product) Product {
	if p.Title != nil {
		product.Title = *p.Title
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = decimal.NewNullDecimal(*p.Price)
	}
	if p.Rating != nil {
		r := *p.Rating
		product.Rating = &r
	}
	if p.Thumbnail != nil {
		product.Thumbnail = *p.Thumbnail
	}
	return product
}

// Merge folds next into p; fields set in next win.
func (p Patch) Merge(next Patch) Patch {
	if next.Title != nil {
		p.Title = next.Title
	}
	if next.Description != nil {
		p.Description = next.Description
	}
	if next.Price != nil {
		p.Price = next.Price
	}
	if next.Rating != nil {
		p.Rating = next.Rating
	}
	if next.Thumbnail != nil {
		p.Thumbnail = next.Thumbnail
	}
	return p
}

// Draft is a product awaiting a locally generated id.
type Draft struct {
	Title       string
	Description string
	Price       decimal.NullDecimal
	Rating      *float64
	Thumbnail   string
}

// Draft validation limits.
const (
	MinTitleLength       = 2
	MinDescriptionLength = 10
	MaxRating            = 5.0
)

// FieldError reports an invalid draft field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the draft against the product form rules and returns the
// first failing field as a *FieldError.
func (d Draft) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(d.Title)) < MinTitleLength {
		return &FieldError{Field: "title", Message: "at least 2 characters"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Description)) < MinDescriptionLength {
		return &FieldError{Field: "description", Message: "at least 10 characters"}
	}
	if d.Price.Valid && d.Price.Decimal.IsNegative() {
		return &FieldError{Field: "price", Message: "must not be negative"}
	}
	if d.Rating != nil && (*d.Rating < 0 || *d.Rating > MaxRating) {
		return &FieldError{Field: "rating", Message: "must be between 0 and 5"}
	}
	if thumb := strings.TrimSpace(d.Thumbnail); thumb != "" {
		u, err := url.Parse(thumb)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return &FieldError{Field: "thumbnail", Message: "must be an http(s) URL"}
		}
	}
	return nil
}

// Product builds a product from the draft under the given id.
func (d Draft) Product(id ID) Product {
	p := Product{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Price:       d.Price,
		Thumbnail:   strings.TrimSpace(d.Thumbnail),
	}
	if d.Rating != nil {
		r := *d.Rating
		p.Rating = &r
	}
	return p
}

// DraftFrom returns the editable fields of an existing product.
func DraftFrom(p Product) Draft {
	d := Draft{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Thumbnail:   p.Thumbnail,
	}
	if p.Rating != nil {
		r := *p.Rating
		d.Rating = &r
	}
	return d
}

// Diff returns the patch that turns p into the draft's values.
func (d Draft) Diff(p Product) Patch {
	next := d.Product(p.ID)
	var patch Patch
	if next.Title != p.Title {
		patch.Title = &next.Title
	}
	if next.Description != p.Description {
		patch.Description = &next.Description
	}
	if next.Price.Valid && (!p.Price.Valid || !next.Price.Decimal.Equal(p.Price.Decimal)) {
		price := next.Price.Decimal
		patch.Price = &price
	}
	if next.Rating != nil && (p.Rating == nil || *next.Rating != *p.Rating) {
		patch.Rating = next.Rating
	}
	if next.Thumbnail != p.Thumbnail {
		patch.Thumbnail = &next.Thumbnail
	}
	return patch
}
