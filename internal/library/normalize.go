package library

import (
	"strings"
	"unicode"
)

// NormalizeName canonicalizes a filename stem for cross-format comparison:
// lower-case, strip everything that is not a letter, digit or whitespace,
// collapse runs of whitespace, trim. The function is idempotent, which the
// set operations downstream rely on.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeTrack canonicalizes a (title, artist) pair into the identity used
// for catalog matching. Same rules as NormalizeName applied to
// "title - artist".
func NormalizeTrack(title, artist string) string {
	return NormalizeName(title + " - " + artist)
}
