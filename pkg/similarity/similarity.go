// Package similarity provides the lexical comparison primitives used by the
// record-linkage scorers: text normalization, edit-distance similarity,
// partial-date comparison, and name-shape classification.
//
// All functions are pure and never fail; missing or empty inputs degrade to
// weaker evidence rather than errors.
package similarity

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases the text, decomposes accented characters and strips
// combining marks, removes everything outside [a-z0-9 whitespace], and
// collapses runs of whitespace into single spaces.
//
//	Normalize("  Jan  NOVÁK ") == "jan novak"
func Normalize(text string) string {
	text = strings.ToLower(text)

	// Decompose accents, drop the combining marks.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripper, text); err == nil {
		text = stripped
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Ratio returns a similarity score in [0,1] between the normalized forms of
// a and b. Equal normalized forms score 1 (including both empty); if exactly
// one side is empty the score is 0. Otherwise the score is
// 1 - levenshtein(a,b)/max(len(a),len(b)).
func Ratio(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}

	distance := levenshtein.ComputeDistance(na, nb)
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	return 1 - float64(distance)/float64(longest)
}
