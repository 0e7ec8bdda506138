package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/perov/internal/chem"
	"github.com/roach88/perov/internal/ir"
)

// MixingColumn is the column name added by WithMixing.
const MixingColumn = "Mixing"

// MixingLabel classifies a row from its A, B and X site occupant counts.
//
// Every count equal to 1 yields "Pure". Otherwise the sites whose count is
// not 1 are joined with " & " and the last one gets a "-site" suffix:
// [2,1,1] -> "A-site", [2,2,1] -> "A & B-site". An empty site counts as
// mixed, the same as an over-full one.
func MixingLabel(counts [3]int) string {
	var names []string
	for i, n := range counts {
		if n != 1 {
			names = append(names, chem.Site(i).String())
		}
	}
	if len(names) == 0 {
		return "Pure"
	}
	names[len(names)-1] += "-site"
	return strings.Join(names, " & ")
}

// SiteCounts counts the distinct nonzero occupants of each site in c.
// Symbols without a site role are ignored. Symbolic coefficients count as occupied.
func SiteCounts(c ir.Composition, sites *chem.SiteTable) [3]int {
	var counts [3]int
	for _, sym := range c.Keys() {
		role, ok := sites.Role(sym)
		if !ok {
			continue
		}
		if v, _ := c.Get(sym); ir.IsZero(v) {
			continue
		}
		counts[role]++
	}
	return counts
}

// Mixing returns the mixing label of a composition.
func Mixing(c ir.Composition, sites *chem.SiteTable) string {
	return MixingLabel(SiteCounts(c, sites))
}

// Vector projects c onto a fixed symbol order. Absent symbols are 0.
// A symbolic coefficient on any listed symbol is an error wrapping
// ErrSymbolicCoefficient, since it has no numeric value.
func Vector(c ir.Composition, order []string) ([]float64, error) {
	out := make([]float64, len(order))
	for i, sym := range order {
		v, ok := c.Get(sym)
		if !ok {
			continue
		}
		f, ok := ir.Float(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s=%s", ErrSymbolicCoefficient, sym, v)
		}
		out[i] = f
	}
	return out, nil
}

// WithMixing returns a copy of f with a Mixing column derived from the site
// member columns present in f. A cell counts as an occupant when it is set,
// non-nil and not numerically zero. Text cells, as read by ReadCSV, count
// unless empty or a number equal to zero.
func WithMixing(f *Frame, sites *chem.SiteTable) *Frame {
	out := f.Clone()
	if !out.HasColumn(MixingColumn) {
		out.Columns = append(out.Columns, MixingColumn)
	}

	for _, r := range out.Rows {
		var counts [3]int
		for _, site := range chem.Sites {
			for _, sym := range sites.Members(site) {
				if occupied(r[sym]) {
					counts[site]++
				}
			}
		}
		r[MixingColumn] = MixingLabel(counts)
	}
	return out
}

func occupied(cell any) bool {
	switch v := cell.(type) {
	case nil:
		return false
	case ir.Numeric:
		return v != 0
	case ir.Symbolic:
		return true
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		if v == "" {
			return false
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f != 0
		}
		return true
	default:
		return true
	}
}
