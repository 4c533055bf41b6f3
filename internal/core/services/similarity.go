package services

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)), measured
// in runes. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}

// comparableName lower-cases a name in NFC form so that composed and
// decomposed accents compare equal.
func comparableName(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
