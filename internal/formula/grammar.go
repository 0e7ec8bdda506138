package formula

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/perov/internal/ir"
)

// DefaultPlaceholders is the alphabet of single-letter symbolic coefficients.
const DefaultPlaceholders = "xyz"

// ErrInvalidPlaceholder indicates a placeholder alphabet entry that is not a
// lowercase ASCII letter.
var ErrInvalidPlaceholder = errors.New("formula: placeholders must be lowercase ASCII letters")

// placeholderSet is a bitmask over 'a'..'z'.
type placeholderSet uint32

func newPlaceholderSet(alphabet string) (placeholderSet, error) {
	var set placeholderSet
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c < 'a' || c > 'z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPlaceholder, alphabet)
		}
		set |= 1 << (c - 'a')
	}
	return set, nil
}

func (s placeholderSet) has(c byte) bool {
	return c >= 'a' && c <= 'z' && s&(1<<(c-'a')) != 0
}

// String lists the letters of the set in alphabetical order.
func (s placeholderSet) String() string {
	var out []byte
	for c := byte('a'); c <= 'z'; c++ {
		if s.has(c) {
			out = append(out, c)
		}
	}
	return string(out)
}

// matchCoefficient matches a coefficient at pos. It always succeeds: when no
// alternative applies it returns ir.One and pos unchanged.
func (p *Parser) matchCoefficient(text string, pos int) (ir.Coefficient, int) {
	if p.parenCoeffs && pos < len(text) && text[pos] == '(' {
		if c, end, ok := p.matchBare(text, pos+1); ok && end < len(text) && text[end] == ')' {
			return c, end + 1
		}
	}
	if c, end, ok := p.matchBare(text, pos); ok {
		return c, end
	}
	return ir.One, pos
}

// matchBare tries, in order: composite placeholder ("1-x"), bare placeholder
// ("x"), decimal ("3", "0.5", ".25").
func (p *Parser) matchBare(text string, pos int) (ir.Coefficient, int, bool) {
	if pos+2 < len(text) && text[pos] >= '1' && text[pos] <= '9' && text[pos+1] == '-' && p.placeholders.has(text[pos+2]) {
		return ir.Symbolic(text[pos : pos+3]), pos + 3, true
	}
	if pos < len(text) && p.placeholders.has(text[pos]) {
		return ir.Symbolic(text[pos : pos+1]), pos + 1, true
	}
	if end := matchDecimal(text, pos); end > pos {
		f, err := strconv.ParseFloat(text[pos:end], 64)
		if err != nil {
			return nil, pos, false
		}
		return ir.Numeric(f), end, true
	}
	return nil, pos, false
}

// matchDecimal returns the end of the longest match of \d*\.?\d+ at pos,
// or pos if there is none. A trailing '.' without digits is not consumed.
func matchDecimal(text string, pos int) int {
	end := scanDigits(text, pos)
	if end < len(text) && text[end] == '.' {
		if frac := scanDigits(text, end+1); frac > end+1 {
			return frac
		}
	}
	return end
}

func scanDigits(text string, pos int) int {
	for pos < len(text) && text[pos] >= '0' && text[pos] <= '9' {
		pos++
	}
	return pos
}
