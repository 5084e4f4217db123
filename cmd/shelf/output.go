package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/shelf/internal/catalog"
)

// productJSON is the machine-readable form of one product.
type productJSON struct {
	catalog.Product
	Liked bool `json:"liked"`
	Local bool `json:"local,omitempty"`
}

type pageJSON struct {
	Page     int           `json:"page"`
	LastPage int           `json:"lastPage"`
	PerPage  int           `json:"perPage"`
	Total    int           `json:"total"`
	Products []productJSON `json:"products"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toJSON(p catalog.Product, snap catalog.State) productJSON {
	_, local := snap.CreatedLocal[p.ID]
	return productJSON{Product: p, Liked: snap.Liked[p.ID], Local: local}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func productTable(items []catalog.Product, snap catalog.State) string {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		liked := ""
		if snap.Liked[p.ID] {
			liked = "♥"
		}
		rows = append(rows, []string{string(p.ID), p.Title, price(p), rating(p), liked})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "TITLE", "PRICE", "RATING", "LIKED").
		Rows(rows...).
		String()
}

func writeProduct(w io.Writer, p catalog.Product, snap catalog.State) {
	fmt.Fprintf(w, "ID:          %s\n", p.ID)
	fmt.Fprintf(w, "Title:       %s\n", p.Title)
	fmt.Fprintf(w, "Price:       %s\n", price(p))
	if r := rating(p); r != "" {
		fmt.Fprintf(w, "Rating:      %s\n", r)
	}
	fmt.Fprintf(w, "Liked:       %t\n", snap.Liked[p.ID])
	if _, ok := snap.CreatedLocal[p.ID]; ok {
		fmt.Fprintln(w, "Local:       true")
	}
	if snap.Deleted[p.ID] {
		fmt.Fprintln(w, "Deleted:     true")
	}
	if p.Thumbnail != "" {
		fmt.Fprintf(w, "Thumbnail:   %s\n", p.Thumbnail)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}

func price(p catalog.Product) string {
	if !p.HasPrice() {
		return "n/a"
	}
	return "$" + p.Price.Decimal.StringFixed(2)
}

func rating(p catalog.Product) string {
	if p.Rating == nil {
		return ""
	}
	return strconv.FormatFloat(*p.Rating, 'f', 1, 64)
}
