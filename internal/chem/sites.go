package chem

import (
	"errors"
	"fmt"
	"slices"
)

// Site is a sublattice role in the ABX3 perovskite structure.
type Site int

const (
	SiteA Site = iota
	SiteB
	SiteX
)

// Sites lists the roles in canonical order.
var Sites = []Site{SiteA, SiteB, SiteX}

func (s Site) String() string {
	switch s {
	case SiteA:
		return "A"
	case SiteB:
		return "B"
	case SiteX:
		return "X"
	default:
		return fmt.Sprintf("Site(%d)", int(s))
	}
}

// Default site membership for the halide perovskite element space.
var (
	DefaultASite = []string{"K", "Rb", "Cs", "MA", "FA"}
	DefaultBSite = []string{"Ca", "Sr", "Ba", "Ge", "Sn", "Pb"}
	DefaultXSite = []string{"Cl", "Br", "I"}
)

// ErrDuplicateSiteMember indicates a symbol assigned to more than one site.
var ErrDuplicateSiteMember = errors.New("chem: symbol assigned to more than one site")

// SiteTable maps symbols to their sublattice role.
type SiteTable struct {
	members [3][]string
	role    map[string]Site
}

// NewSiteTable builds a site table. Member order within each site is kept
// and defines the fixed slot order returned by Order.
func NewSiteTable(a, b, x []string) (*SiteTable, error) {
	st := &SiteTable{role: make(map[string]Site)}
	for site, members := range [3][]string{a, b, x} {
		for _, sym := range members {
			if prev, ok := st.role[sym]; ok {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateSiteMember, sym, prev, Site(site))
			}
			st.role[sym] = Site(site)
		}
		st.members[site] = slices.Clone(members)
	}
	return st, nil
}

// DefaultSiteTable returns the 14-symbol K..FA | Ca..Pb | Cl..I table.
func DefaultSiteTable() *SiteTable {
	st, err := NewSiteTable(DefaultASite, DefaultBSite, DefaultXSite)
	if err != nil {
		panic(err) // defaults are disjoint literals
	}
	return st
}

// Role returns the site a symbol occupies.
func (st *SiteTable) Role(sym string) (Site, bool) {
	s, ok := st.role[sym]
	return s, ok
}

// Members returns the symbols of one site in declaration order.
func (st *SiteTable) Members(s Site) []string {
	if s < SiteA || s > SiteX {
		return nil
	}
	return slices.Clone(st.members[s])
}

// Order returns all members: A-site symbols, then B-site, then X-site.
func (st *SiteTable) Order() []string {
	out := make([]string, 0, len(st.role))
	for _, members := range st.members {
		out = append(out, members...)
	}
	return out
}
