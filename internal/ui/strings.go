package ui

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/five82/shelf/internal/catalog"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// wrap breaks text into lines no wider than width, splitting on spaces.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var lines []string
	var line strings.Builder
	for _, w := range words {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(w)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// formatPrice renders a price as "$12.50", or "n/a" when absent.
func formatPrice(p catalog.Product) string {
	if !p.HasPrice() {
		return "n/a"
	}
	return "$" + p.Price.Decimal.Round(2).StringFixed(2)
}

// formatRating renders a rating as "★ 4.5", or "" when absent.
func formatRating(p catalog.Product) string {
	if p.Rating == nil {
		return ""
	}
	return "★ " + decimal.NewFromFloat(*p.Rating).StringFixed(1)
}

// titleCase upper-cases the first letter of s.
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncateMiddle shortens a path-like value by eliding its middle.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
