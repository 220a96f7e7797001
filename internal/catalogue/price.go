package catalogue

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParsePrice parses locale-formatted currency text such as "$1,250.00" or
// "1.250,00" into a non-negative amount. Unparseable, non-finite or negative
// input yields 0.
func ParsePrice(text string) float64 {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, cleanText(text))
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(normalizeSeparators(s))
	if err != nil || d.IsNegative() {
		return 0
	}
	// exponent notation can overflow float64
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// normalizeSeparators rewrites the number so that "." is the only decimal
// separator and thousands separators are gone.
//
// When both "." and "," appear, the last one is the decimal separator. A lone
// separator followed by exactly three digits is read as a thousands separator,
// otherwise a lone "," is decimal. Repeated separators are always thousands.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.ReplaceAll(s, ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			return strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// ParseStock parses the leading integer of the stock text ("12", "12 unidades").
// Text without a leading integer, or a negative one, yields 0.
func ParseStock(text string) int {
	s := cleanText(text)

	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// FormatPrice renders a price the way the storefront shows it: "." groups
// thousands, "," separates decimals, two to three fraction digits (1.250,00).
func FormatPrice(price float64) string {
	fixed := decimal.NewFromFloat(price).Round(3).StringFixed(3)

	whole, frac, _ := strings.Cut(fixed, ".")
	frac = strings.TrimSuffix(frac, "0")

	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + "," + frac
}
