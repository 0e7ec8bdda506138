// Package ir provides the value types shared by the formula pipeline.
//
// This package contains type definitions and their arithmetic only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Coefficient is sealed: Numeric or Symbolic, never a bare float or string
//   - Node is sealed: Leaf or Group, never an untyped nested list
//   - Symbolic values are never coerced to numbers
//   - Canonical JSON (sorted keys, no HTML escaping) for hashing and snapshots
package ir
