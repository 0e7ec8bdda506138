package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/perov/internal/ir"
)

// marshalPairs encodes c as a canonical JSON array of [symbol, coefficient]
// pairs in first-encounter order: [["MA",1],["Pb",1],["I",3]].
func marshalPairs(c ir.Composition) (string, error) {
	pairs := c.Pairs()
	arr := make([]any, len(pairs))
	for i, p := range pairs {
		arr[i] = []any{p.Symbol, p.Coefficient}
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal composition: %w", err)
	}
	return string(data), nil
}

// unmarshalPairs decodes marshalPairs output. A JSON object, as written
// by schema v1, is also accepted; its keys come back sorted.
func unmarshalPairs(text string) (ir.Composition, error) {
	if len(text) > 0 && text[0] == '{' {
		var c ir.Composition
		if err := json.Unmarshal([]byte(text), &c); err != nil {
			return ir.Composition{}, fmt.Errorf("unmarshal composition: %w", err)
		}
		return c, nil
	}

	var raw [][]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return ir.Composition{}, fmt.Errorf("unmarshal composition: %w", err)
	}

	var c ir.Composition
	for i, pair := range raw {
		if len(pair) != 2 {
			return ir.Composition{}, fmt.Errorf("unmarshal composition: pair %d has %d elements", i, len(pair))
		}
		var sym string
		if err := json.Unmarshal(pair[0], &sym); err != nil {
			return ir.Composition{}, fmt.Errorf("unmarshal composition: pair %d symbol: %w", i, err)
		}
		if c.Has(sym) {
			return ir.Composition{}, fmt.Errorf("unmarshal composition: duplicate symbol %q", sym)
		}
		coeff, err := ir.UnmarshalCoefficient(pair[1])
		if err != nil {
			return ir.Composition{}, fmt.Errorf("unmarshal composition: pair %d: %w", i, err)
		}
		c.Set(sym, coeff)
	}
	return c, nil
}

// marshalColumns stores a column list as a JSON array, order preserved.
func marshalColumns(cols []string) (string, error) {
	if cols == nil {
		cols = []string{}
	}
	data, err := ir.MarshalCanonical(cols)
	if err != nil {
		return "", fmt.Errorf("marshal columns: %w", err)
	}
	return string(data), nil
}

func unmarshalColumns(text string) ([]string, error) {
	cols := []string{}
	if err := json.Unmarshal([]byte(text), &cols); err != nil {
		return nil, fmt.Errorf("unmarshal columns: %w", err)
	}
	return cols, nil
}
