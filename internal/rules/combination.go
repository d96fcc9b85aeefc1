package rules

import (
	"sort"
	"strings"
)

// CombinationRule whitelists the option sets a multi-select challenge
// accepts. Selections are compared as sets; order never matters.
type CombinationRule struct {
	// Challenge is the challenge rule the whitelist guards.
	Challenge string
	// Allowed lists every acceptable selection, each itself a set of
	// option ids.
	Allowed [][]string
}

// SelectionKey returns the canonical form of a selection: unique option ids
// sorted ascending, joined with "+". Content packs use the same form to map
// reveal slides to the selections they cover.
func SelectionKey(options []string) string {
	unique := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, id := range options {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)
	return strings.Join(unique, "+")
}

// IsValidCombination reports whether the selected options equal one of the
// allowed sets. An empty whitelist accepts nothing.
func IsValidCombination(allowed [][]string, selected []string) bool {
	key := SelectionKey(selected)
	if key == "" {
		return false
	}
	for _, combo := range allowed {
		if SelectionKey(combo) == key {
			return true
		}
	}
	return false
}

// CoversSelection reports whether a reveal slide mapped to the given
// selection keys is responsible for the selection.
func CoversSelection(keys []string, selectionKey string) bool {
	for _, key := range keys {
		if key == selectionKey {
			return true
		}
	}
	return false
}
