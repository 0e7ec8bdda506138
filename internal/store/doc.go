// Package store provides SQLite-backed persistence for perov table builds.
//
// Two concerns share one database:
//   - Compositions: a cache of aggregated compositions keyed by the
//     content hash of the normalized formula text. Store implements
//     table.Cache.
//   - Batches: an append-only log of table builds, each with a UUIDv7 id,
//     its input formulas, per-row compositions and reported column delta.
//
// # Ordering
//
// Both tables carry a seq INTEGER logical clock. Reads order by
// seq ASC, id ASC COLLATE BINARY and never by wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Compositions are stored as RFC 8785 canonical JSON (ir.MarshalCanonical).
package store
