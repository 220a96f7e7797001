package model

import "strings"

// Product represents one validated catalogue item read from the spreadsheet.
// Values are built once by the normalizer and never mutated afterwards.
type Product struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	PhotoURL    string  `json:"photo_url"`
}

// Available reports whether the product has units in stock.
func (p Product) Available() bool {
	return p.Stock > 0
}

// InCategory reports whether the product belongs to the given category, ignoring case.
func (p Product) InCategory(category string) bool {
	return strings.EqualFold(p.Category, category)
}
