package store

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks strips combining marks after canonical decomposition, so
// accented Latin letters reduce to their base letter ("é" -> "e").
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe lowercase-with-hyphens token from a name.
// Accents are folded to their base letters; runs of remaining
// non-alphanumeric characters collapse into a single hyphen, and leading
// and trailing hyphens are dropped. Uniqueness is the caller's concern
// (check existing slugs and append -2, -3, ... on collision).
func Slugify(name string) string {
	if folded, _, err := transform.String(foldMarks, name); err == nil {
		name = folded
	}

	var b strings.Builder
	b.Grow(len(name))

	prevHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
