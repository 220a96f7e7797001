package catalogue

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedRow is returned when a row has fewer fields than the layout requires.
	ErrMalformedRow = errors.New("malformed row")
)

// Layout maps the named product fields to positional columns of a raw row.
type Layout struct {
	Code        int
	Name        int
	Description int
	Category    int
	Price       int
	Stock       int
	PhotoURL    int
}

// DefaultLayout is the column order of the catalogue sheet:
// code, name, description, category, price, stock, photo URL.
var DefaultLayout = Layout{
	Code:        0,
	Name:        1,
	Description: 2,
	Category:    3,
	Price:       4,
	Stock:       5,
	PhotoURL:    6,
}

// Width returns the minimum number of fields a row needs to satisfy the layout.
func (l Layout) Width() int {
	return max(l.Code, l.Name, l.Description, l.Category, l.Price, l.Stock, l.PhotoURL) + 1
}

// Record is a raw row with its fields addressed by name instead of position.
// Values are kept as text; cleaning and parsing happen in Normalize.
type Record struct {
	Code         string
	Name         string
	Description  string
	Category     string
	PriceText    string
	StockText    string
	PhotoURLText string
}

// FromFields extracts a Record from an ordered field sequence using the layout.
// Extra fields are ignored.
func FromFields(fields []string, layout Layout) (Record, error) {
	if len(fields) < layout.Width() {
		return Record{}, ErrMalformedRow
	}

	return Record{
		Code:         fields[layout.Code],
		Name:         fields[layout.Name],
		Description:  fields[layout.Description],
		Category:     fields[layout.Category],
		PriceText:    fields[layout.Price],
		StockText:    fields[layout.Stock],
		PhotoURLText: fields[layout.PhotoURL],
	}, nil
}

// cleanText trims surrounding whitespace and strips one layer of wrapping double quotes.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}
