package finance

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics: decompose, drop combining marks, recompose.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// IsFrance resolves a free-text customer country to the French VAT regime.
// Matching is case- and diacritic-insensitive so "France", "FRANCE" and
// "français" typos like "Françe" all resolve the same way.
func IsFrance(country string) bool {
	folded, _, err := transform.String(foldTransformer, country)
	if err != nil {
		folded = country
	}
	switch strings.ToLower(strings.TrimSpace(folded)) {
	case "france", "fr":
		return true
	}
	return false
}
