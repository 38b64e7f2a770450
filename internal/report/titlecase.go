package report

import (
	"strings"
	"unicode"
)

// TitleCase upper-cases the first cased letter of every word and lower-cases
// the rest. A word starts after any character that is not a cased letter, so
// "o'neil" becomes "O'Neil" and "4th" becomes "4Th".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r) {
			if prevCased {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
			prevCased = true
		} else {
			prevCased = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeCell trims, lower-cases and then title-cases a display value.
// Lower-casing first flattens internal capitals: "mcKAY" -> "Mckay".
func NormalizeCell(s string) string {
	return TitleCase(strings.ToLower(strings.TrimSpace(s)))
}
