// Package names normalizes user-facing subject names into filesystem-safe
// slugs used for attendance sheet filenames.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Slug converts a subject name into a lowercase identifier safe to embed in
// a filename: diacritics stripped, runs of non-alphanumeric characters
// collapsed into single underscores.
func Slug(name string) string {
	name = strings.ToLower(RemoveDiacritics(strings.TrimSpace(name)))

	var b strings.Builder
	pendingSep := false
	for _, r := range name {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
