// Package indicator defines the per-team business indicators a session
// tracks and the primitive that applies effect batches to them.
//
// A Snapshot holds one team's indicators for one round: the start values
// seeded at the round boundary and the current values that reveals move
// during play. An Effect is a single signed change to one indicator, either
// a fixed amount or a percentage of the running value. Apply is the only
// way current values change; round boundaries are handled by the rounds
// package, which rebuilds start values instead.
package indicator
