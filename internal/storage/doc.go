// Package storage defines the persistence contracts of the scoring engine.
//
// It covers the five record families a session accumulates: teams,
// decisions, indicator snapshots, permanent adjustments, and the
// application ledger, plus operational telemetry. Interfaces are grouped by
// record family with read-only subsets for consumers that never write; the
// sqlite subpackage provides the durable implementation.
//
// # Error Types
//
//   - ErrNotFound: a requested record is missing.
//   - ErrAlreadyExists: a uniqueness-constrained record already exists;
//     callers racing on create-if-absent re-read the winner instead of
//     failing.
package storage
