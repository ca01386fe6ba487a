package customers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var searchNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSearch lowercases and strips diacritics so "Hélène" matches
// "helene". The repository stores the same normalization in search_text, which
// keeps matching symmetric on both sides.
func NormalizeSearch(s string) string {
	out, _, err := transform.String(searchNormalizer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// SearchText builds the normalized haystack stored alongside each customer.
func SearchText(c Customer) string {
	parts := []string{c.FirstName, c.LastName}
	for _, p := range []*string{c.Email, c.Company, c.Reference} {
		if p != nil {
			parts = append(parts, *p)
		}
	}
	return NormalizeSearch(strings.Join(parts, " "))
}
