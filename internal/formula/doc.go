// Package formula turns free-text perovskite formulas into compositions.
//
// The pipeline for one formula is:
//
//	Normalize  -> ASCII text ("MAPbI₃" -> "MAPbI3")
//	Parse      -> composition tree of ir.Leaf / ir.Group nodes
//	Propagate  -> every group coefficient pushed down into its leaves
//	Flatten    -> ordered (symbol, coefficient) pairs
//	Aggregate  -> one coefficient per symbol (ir.Composition)
//
// Grammar:
//
//	formula         := (formula_element coefficient)+
//	formula_element := element_token | '(' formula ')'
//	coefficient     := '(' bare ')' | bare | ε
//	bare            := [1-9] '-' placeholder | placeholder | decimal
//
// The parser is deliberately lenient. It never returns an error: parsing
// stops at the first byte that does not fit the grammar and whatever was
// recognized up to that point is kept. A missing closing parenthesis is
// tolerated. Symbolic coefficients ("x", "1-x") are carried through as
// ir.Symbolic values and never resolved.
//
// Processor values are immutable and safe for concurrent use.
package formula
