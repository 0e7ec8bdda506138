package formula

import "github.com/roach88/perov/internal/ir"

// Propagate distributes the ambient multiplier into every leaf.
// Each group's own coefficient is folded into the multiplier passed to its
// children and then reset to 1, so the returned tree carries fully resolved
// coefficients on its leaves only. The input tree is not modified.
func Propagate(n ir.Node, ambient ir.Coefficient) ir.Node {
	switch v := n.(type) {
	case ir.Leaf:
		return ir.Leaf{Symbol: v.Symbol, Coefficient: ir.Multiply(ambient, v.Coefficient)}
	case ir.Group:
		inner := ir.Multiply(ambient, v.Coefficient)
		children := make([]ir.Node, len(v.Children))
		for i, child := range v.Children {
			children[i] = Propagate(child, inner)
		}
		return ir.Group{Children: children, Coefficient: ir.One}
	default:
		return n
	}
}

// Flatten collects leaves depth-first, left to right.
func Flatten(n ir.Node) []ir.Pair {
	return appendLeaves(nil, n)
}

func appendLeaves(pairs []ir.Pair, n ir.Node) []ir.Pair {
	switch v := n.(type) {
	case ir.Leaf:
		return append(pairs, ir.Pair{Symbol: v.Symbol, Coefficient: v.Coefficient})
	case ir.Group:
		for _, child := range v.Children {
			pairs = appendLeaves(pairs, child)
		}
	}
	return pairs
}

// Aggregate merges repeated symbols in encounter order.
// The first occurrence is stored as is; later ones are combined with ir.Merge.
func Aggregate(pairs []ir.Pair) ir.Composition {
	return ir.CompositionOf(pairs...)
}
