package catalogue

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iyhunko/sheets-storefront/internal/model"
)

const (
	// RejectMalformedRow marks a row with too few fields.
	RejectMalformedRow = "malformed_row"
	// RejectMissingName marks a row without a product name.
	RejectMissingName = "missing_name"
	// RejectInvalidPhotoURL marks a row whose photo URL is empty or not HTTP(S).
	RejectInvalidPhotoURL = "invalid_photo_url"
)

// Rejection describes a dropped row. Row is the zero-based index in the input.
type Rejection struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result is the outcome of normalizing a collection of rows.
type Result struct {
	Received   int
	Products   []model.Product
	Rejections []Rejection
}

// RejectedRows returns the indices of the dropped rows.
func (r Result) RejectedRows() []int64 {
	rows := make([]int64, 0, len(r.Rejections))
	for _, rej := range r.Rejections {
		rows = append(rows, int64(rej.Row))
	}
	return rows
}

// Normalize turns a record into a validated product.
// It returns false when the record has no name or no usable photo URL.
func Normalize(rec Record) (model.Product, bool) {
	p, reason := normalize(rec)
	return p, reason == ""
}

// NormalizeRow normalizes a positional row laid out as DefaultLayout.
func NormalizeRow(fields []string) (model.Product, bool) {
	rec, err := FromFields(fields, DefaultLayout)
	if err != nil {
		return model.Product{}, false
	}
	return Normalize(rec)
}

// NormalizeRows normalizes every row, keeping input order. Dropped rows do not
// affect the accepted products; they are only listed in Result.Rejections.
func NormalizeRows(rows [][]string, layout Layout) Result {
	res := Result{
		Received: len(rows),
		Products: make([]model.Product, 0, len(rows)),
	}

	for i, fields := range rows {
		rec, err := FromFields(fields, layout)
		if err != nil {
			res.Rejections = append(res.Rejections, Rejection{Row: i, Reason: RejectMalformedRow})
			continue
		}

		p, reason := normalize(rec)
		if reason != "" {
			res.Rejections = append(res.Rejections, Rejection{Row: i, Reason: reason})
			continue
		}
		res.Products = append(res.Products, p)
	}

	return res
}

func normalize(rec Record) (model.Product, string) {
	p := model.Product{
		Code:        cleanText(rec.Code),
		Name:        cleanText(rec.Name),
		Description: cleanText(rec.Description),
		Category:    cleanText(rec.Category),
		Price:       ParsePrice(rec.PriceText),
		Stock:       ParseStock(rec.StockText),
		PhotoURL:    DirectPhotoURL(cleanText(rec.PhotoURLText)),
	}

	if p.Name == "" {
		return model.Product{}, RejectMissingName
	}
	if p.PhotoURL == "" || !strings.HasPrefix(p.PhotoURL, "http") {
		return model.Product{}, RejectInvalidPhotoURL
	}

	return p, ""
}

// Fingerprint returns a stable sha256 hex digest of the product list.
// Equal lists in equal order always hash the same.
func Fingerprint(products []model.Product) (string, error) {
	b, err := json.Marshal(products)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
