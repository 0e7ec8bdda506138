// Package table aggregates many formula compositions into a feature table.
//
// Build runs the formula pipeline over a batch of rows and reports the
// column universe plus the delta of columns not already known to the
// caller. BuildFrame is the table-shaped form: it returns a new Frame with
// those columns attached and never mutates the caller's frame.
//
// # Determinism
//
//   - Row results keep input order, also when rows are processed in parallel
//   - Column lists are sorted, so the delta does not depend on row order
//   - The caller's existing column set is copied before use; building twice
//     against the same snapshot reports the same delta
//
// The package also derives per-row site descriptors from a composition:
// site occupancy counts, the mixing label ("Pure", "A-site", "A & B-site"),
// and a fixed-order numeric vector for downstream calculators.
package table
