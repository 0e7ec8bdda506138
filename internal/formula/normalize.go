package formula

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newASCIIFolder returns a fresh transformer chain. Chains carry state, so each
// call to Normalize builds its own.
func newASCIIFolder() transform.Transformer {
	return transform.Chain(
		norm.NFKD, // "₃" -> "3", "é" -> "e" + U+0301
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(foldDash),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}

// foldDash maps Unicode hyphens, dashes and minus signs to ASCII '-'.
func foldDash(r rune) rune {
	switch {
	case r >= '\u2010' && r <= '\u2015', r == '\u2212', r == '\ufe63', r == '\uff0d':
		return '-'
	}
	return r
}

// Normalize folds formula text to ASCII and trims surrounding whitespace.
// Runes with no ASCII equivalent are dropped.
func Normalize(text string) string {
	out, _, err := transform.String(newASCIIFolder(), text)
	if err != nil {
		// Only reachable on internal transformer failure; fall back to the raw text.
		out = text
	}
	return strings.TrimSpace(out)
}
