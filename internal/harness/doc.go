// Package harness runs formula scenarios as executable tests.
//
// A scenario lists input formulas, the columns the caller already has, and
// assertions on the built table. Each run uses a fresh in-memory store as
// the composition cache and records the build as a batch with a fixed id,
// so results and golden snapshots are reproducible.
//
// # Scenario Format
//
//	name: germanium-halides
//	description: "What this scenario validates"
//	config: optional/path/to/perov.yaml
//	batch_id: optional-fixed-id
//	existing: [Formula]
//	formulas:
//	  - MAGeBr3
//	  - MAGeI3
//	assertions:
//	  - type: composition
//	    row: 0
//	    expect: { MA: 1, Ge: 1, Br: 3 }
//	  - type: new_columns
//	    columns: [Br, Ge, I, MA]
//	  - type: mixing
//	    row: 0
//	    label: Pure
//	  - type: remainder
//	    row: 1
//	    text: ""
//
// # Assertion Types
//
//   - composition: the row's composition equals expect exactly
//   - new_columns: the reported column delta equals columns
//   - mixing: the row's mixing label equals label
//   - remainder: the unparsed tail of the row's normalized text equals text
//
// Numbers in expect are numeric coefficients; strings are symbolic ones.
package harness
