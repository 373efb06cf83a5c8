package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks from a string ("Bénin" -> "Benin").
// Returns the input unchanged if the transform fails.
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// CountrySlug normalizes a country name for use in cache filenames:
// diacritics stripped, apostrophes removed, words joined by underscores,
// lowercased. "Côte d'Ivoire" becomes "cote_divoire".
func CountrySlug(name string) string {
	s := StripDiacritics(name)
	for _, ch := range []string{"'", "’", "`"} {
		s = strings.ReplaceAll(s, ch, "")
	}
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}
