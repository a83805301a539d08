package submission

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldVietnamese maps the two letters that have no canonical decomposition.
func foldVietnamese(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
}

// Normalize returns the comparison key for a person's name: lowercase, without
// diacritics, with whitespace collapsed to single spaces.
// PRE: none
// POST: Normalize(Normalize(s)) == Normalize(s)
func Normalize(name string) string {
	// transform.Chain keeps state, so it is built per call.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(foldVietnamese),
		norm.NFC,
	)
	folded, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}
	return strings.Join(strings.Fields(folded), " ")
}
