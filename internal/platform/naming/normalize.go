package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that do not decompose under NFD.
var nonDecomposing = strings.NewReplacer(
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
)

// Key folds a team or player name into its lookup form: diacritics removed,
// lowercased, inner whitespace collapsed to one space and trimmed.
func Key(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	// transform.Chain keeps state, so it cannot be shared across goroutines.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		folded = raw
	}
	folded = nonDecomposing.Replace(folded)

	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Equal reports whether two names resolve to the same lookup key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
