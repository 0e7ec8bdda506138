package ir

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Composition maps element symbols to one aggregated coefficient per formula.
// Keys() preserves first-encounter order; SortedKeys() gives canonical order.
//
// The zero value is an empty composition ready to use.
type Composition struct {
	keys []string
	vals map[string]Coefficient
}

// CompositionOf builds a composition from pairs, merging repeated symbols.
func CompositionOf(pairs ...Pair) Composition {
	var c Composition
	for _, p := range pairs {
		c.Add(p.Symbol, p.Coefficient)
	}
	return c
}

// Set stores coeff for symbol, replacing any existing value.
func (c *Composition) Set(symbol string, coeff Coefficient) {
	if c.vals == nil {
		c.vals = make(map[string]Coefficient)
	}
	if _, ok := c.vals[symbol]; !ok {
		c.keys = append(c.keys, symbol)
	}
	c.vals[symbol] = coeff
}

// Add stores coeff on first occurrence of symbol and merges it on later ones.
func (c *Composition) Add(symbol string, coeff Coefficient) {
	if existing, ok := c.vals[symbol]; ok {
		c.vals[symbol] = Merge(existing, coeff)
		return
	}
	c.Set(symbol, coeff)
}

// Get returns the coefficient for symbol.
func (c Composition) Get(symbol string) (Coefficient, bool) {
	v, ok := c.vals[symbol]
	return v, ok
}

// Has reports whether symbol is present.
func (c Composition) Has(symbol string) bool {
	_, ok := c.vals[symbol]
	return ok
}

// Len returns the number of distinct symbols.
func (c Composition) Len() int {
	return len(c.keys)
}

// Keys returns symbols in first-encounter order.
func (c Composition) Keys() []string {
	return slices.Clone(c.keys)
}

// SortedKeys returns symbols in RFC 8785 canonical order.
func (c Composition) SortedKeys() []string {
	keys := slices.Clone(c.keys)
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// Map returns a copy of the composition as a plain map.
func (c Composition) Map() map[string]Coefficient {
	m := make(map[string]Coefficient, len(c.vals))
	for k, v := range c.vals {
		m[k] = v
	}
	return m
}

// Pairs returns the entries in first-encounter order.
func (c Composition) Pairs() []Pair {
	pairs := make([]Pair, 0, len(c.keys))
	for _, k := range c.keys {
		pairs = append(pairs, Pair{Symbol: k, Coefficient: c.vals[k]})
	}
	return pairs
}

// MarshalJSON encodes the composition as an object with sorted keys.
func (c Composition) MarshalJSON() ([]byte, error) {
	return marshalCanonicalComposition(c)
}

// UnmarshalJSON decodes an object of numbers and strings.
// Key order of the decoded composition is canonical (sorted), since JSON objects
// carry no order guarantee.
func (c *Composition) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)

	*c = Composition{}
	for _, k := range keys {
		coeff, err := UnmarshalCoefficient(raw[k])
		if err != nil {
			return fmt.Errorf("composition key %q: %w", k, err)
		}
		c.Set(k, coeff)
	}
	return nil
}
