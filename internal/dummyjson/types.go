package dummyjson

// ProductPage mirrors the payload returned by /products.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Product is the subset of a DummyJSON product the catalog uses. Optional
// fields are pointers so absent values stay distinguishable from zero.
type Product struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}
