// Package rules evaluates history-dependent game rules: immunity from a
// challenge's consequences, forced challenge outcomes, multi-option
// combination validity, and conditional effect bonuses.
//
// Every evaluator is a pure function over a team's decision history and a
// rule value drawn from the active content pack. Nothing here mutates state
// or touches storage; the reveal engine decides when the answers matter.
package rules
