package search

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder strips combining marks after canonical decomposition, mapping
// "Título" to "Titulo". Shared because transformers are stateless here.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns s with diacritics removed. On a malformed input the
// original string is returned unchanged; search quality degrades but
// never errors.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return out
}
