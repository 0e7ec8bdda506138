// Package chem holds the recognizable token vocabulary for perovskite formulas.
//
// A SymbolTable matches element and molecule tokens with longest-match
// priority, so "Br" is never split into "B" + "r" and "MA" is never read
// as an unknown "M". A SiteTable assigns symbols to the A, B and X
// sublattice roles of the ABX3 structure.
//
// Both tables are immutable once built and safe for concurrent use.
package chem
