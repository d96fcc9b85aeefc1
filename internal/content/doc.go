// Package content defines the game-version content pack: round baselines,
// the finance rate table, trigger bindings, effect sets, and rule tables.
// Packs load from YAML and are validated once at startup; a 3-round launch
// pack ships embedded as the default.
package content
