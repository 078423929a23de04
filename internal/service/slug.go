package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// symbolWords spells out symbols that would otherwise vanish from a slug.
var symbolWords = strings.NewReplacer("&", " and ", "@", " at ", "+", " plus ")

// Slugify lower-cases name, strips diacritics, and joins the remaining runs
// of letters and digits with single hyphens:
// "Devworks Bootcamp" → "devworks-bootcamp", "Código & Café" → "codigo-and-cafe".
func Slugify(name string) string {
	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(symbolWords.Replace(folded))

	var b strings.Builder
	gap := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}
