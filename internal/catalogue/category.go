package catalogue

import (
	"strings"

	"github.com/iyhunko/sheets-storefront/internal/model"
)

// AllCategory is the synthetic category meaning "no filter applied".
const AllCategory = "ALL"

// headerPlaceholders are header cell values that leak into the category column
// when the sheet header is read as data.
var headerPlaceholders = []string{"CATEGORY", "CATEGORÍA", "CATEGORIA"}

// Categories returns AllCategory followed by the distinct non-empty product
// categories in first-seen order.
func Categories(products []model.Product) []string {
	categories := []string{AllCategory}
	seen := make(map[string]struct{})

	for _, p := range products {
		c := p.Category
		if strings.TrimSpace(c) == "" || isReservedCategory(c) {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}

	return categories
}

func isReservedCategory(c string) bool {
	c = strings.TrimSpace(c)
	if strings.EqualFold(c, AllCategory) {
		return true
	}
	for _, placeholder := range headerPlaceholders {
		if strings.EqualFold(c, placeholder) {
			return true
		}
	}
	return false
}

// FilterByCategory returns the products in the given category, compared
// case-insensitively. AllCategory returns the input slice as is.
// The input is never modified.
func FilterByCategory(products []model.Product, category string) []model.Product {
	if strings.EqualFold(category, AllCategory) {
		return products
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.InCategory(category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
