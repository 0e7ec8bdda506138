package ir

// Node is a sealed interface for composition tree nodes.
// Only Leaf and Group implement it.
type Node interface {
	node() // Sealed - only these types implement it

	// Coeff returns the node's own coefficient.
	Coeff() Coefficient
}

// Leaf is a single element or molecule token with its coefficient.
type Leaf struct {
	Symbol      string
	Coefficient Coefficient
}

func (Leaf) node() {}

// Coeff returns the leaf's coefficient.
func (l Leaf) Coeff() Coefficient { return l.Coefficient }

// Group is a parenthesized sub-formula. Its coefficient multiplies every descendant.
// Children keep source order.
type Group struct {
	Children    []Node
	Coefficient Coefficient
}

func (Group) node() {}

// Coeff returns the group's coefficient.
func (g Group) Coeff() Coefficient { return g.Coefficient }

// Pair is one entry of a flattened composition.
type Pair struct {
	Symbol      string      `json:"symbol"`
	Coefficient Coefficient `json:"coefficient"`
}
