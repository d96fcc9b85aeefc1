// Package game defines the shared vocabulary of a simulation session.
//
// A session hosts a fixed set of competing teams across a small number of
// rounds. Between scripted reveals, each team locks in one Decision per
// decision phase: the options it funds, the budget it commits, and (in an
// exchange phase) the earlier option it gives up. Decisions are written once
// by the collection layer and are read-only to every other component; the
// scoring engine derives everything else from them.
//
// The package also provides identifier generation for entities that need
// one. Identifiers are UUIDv4 bytes encoded as unpadded lowercase base32,
// which keeps them URL- and file-path-safe.
package game
