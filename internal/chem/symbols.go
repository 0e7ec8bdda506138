package chem

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Elements lists every element symbol of the periodic table, H through Og.
var Elements = strings.Fields(`
	H                                                                   He
	Li  Be                                          B   C   N   O   F   Ne
	Na  Mg                                          Al  Si  P   S   Cl  Ar
	K   Ca  Sc  Ti  V   Cr  Mn  Fe  Co  Ni  Cu  Zn  Ga  Ge  As  Se  Br  Kr
	Rb  Sr  Y   Zr  Nb  Mo  Tc  Ru  Rh  Pd  Ag  Cd  In  Sn  Sb  Te  I   Xe
	Cs  Ba  La  Hf  Ta  W   Re  Os  Ir  Pt  Au  Hg  Tl  Pb  Bi  Po  At  Rn
	Fr  Ra  Ac  Rf  Db  Sg  Bh  Hs  Mt  Ds  Rg  Cn  Nh  Fl  Mc  Lv  Ts  Og
	            Ce  Pr  Nd  Pm  Sm  Eu  Gd  Tb  Dy  Ho  Er  Tm  Yb  Lu
	            Th  Pa  U   Np  Pu  Am  Cm  Bk  Cf  Es  Fm  Md  No  Lr
`)

// DefaultMolecules are the organic A-site cations written as single tokens:
// methylammonium and formamidinium.
var DefaultMolecules = []string{"MA", "FA"}

// ErrInvalidSymbol indicates a token that cannot be added to a symbol table.
var ErrInvalidSymbol = errors.New("chem: symbol must be non-empty ASCII letters")

// SymbolTable is a byte trie over recognizable tokens.
// Lookups return the longest token that matches at a position.
type SymbolTable struct {
	root    *trieNode
	symbols []string
}

type trieNode struct {
	next     map[byte]*trieNode
	terminal bool
}

// NewSymbolTable builds a table from the periodic table plus the given molecule tokens.
// Duplicate tokens are ignored.
func NewSymbolTable(molecules ...string) (*SymbolTable, error) {
	t := &SymbolTable{root: &trieNode{}}
	for _, sym := range Elements {
		t.insert(sym)
	}
	for _, sym := range molecules {
		if !isLetters(sym) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSymbol, sym)
		}
		t.insert(sym)
	}
	return t, nil
}

// DefaultSymbolTable returns the periodic table plus DefaultMolecules.
func DefaultSymbolTable() *SymbolTable {
	t, err := NewSymbolTable(DefaultMolecules...)
	if err != nil {
		panic(err) // DefaultMolecules are valid literals
	}
	return t
}

func (t *SymbolTable) insert(sym string) {
	n := t.root
	for i := 0; i < len(sym); i++ {
		if n.next == nil {
			n.next = make(map[byte]*trieNode)
		}
		child, ok := n.next[sym[i]]
		if !ok {
			child = &trieNode{}
			n.next[sym[i]] = child
		}
		n = child
	}
	if !n.terminal {
		n.terminal = true
		t.symbols = append(t.symbols, sym)
	}
}

// Match returns the longest known token starting at byte offset pos of text.
func (t *SymbolTable) Match(text string, pos int) (string, bool) {
	n := t.root
	end := -1
	for i := pos; i < len(text); i++ {
		child, ok := n.next[text[i]]
		if !ok {
			break
		}
		n = child
		if n.terminal {
			end = i + 1
		}
	}
	if end < 0 {
		return "", false
	}
	return text[pos:end], true
}

// Contains reports whether sym is a known token.
func (t *SymbolTable) Contains(sym string) bool {
	got, ok := t.Match(sym, 0)
	return ok && got == sym
}

// Symbols returns all tokens ordered longest first, then alphabetically.
func (t *SymbolTable) Symbols() []string {
	out := slices.Clone(t.symbols)
	slices.SortFunc(out, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return out
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
