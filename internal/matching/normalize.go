package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases and strips diacritics so "Pâtes", "pates" and "PATES"
// compare equal. French ligatures fold to their two-letter spellings first,
// NFD plus combining-mark removal handles the accents.
func Fold(s string) string {
	replacer := strings.NewReplacer(
		"œ", "oe", "Œ", "oe",
		"æ", "ae", "Æ", "ae",
	)
	s = replacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return strings.ToLower(result)
}

// containsFold reports whether needle occurs in haystack under folding.
func containsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// hasPrefixFold reports whether haystack starts with needle under folding.
func hasPrefixFold(haystack, needle string) bool {
	return strings.HasPrefix(Fold(haystack), Fold(needle))
}

// containsWholeWordFold reports whether needle occurs space-delimited inside
// haystack under folding. Prefix and suffix positions do not count; those
// score differently.
func containsWholeWordFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), " "+Fold(needle)+" ")
}
