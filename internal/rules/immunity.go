package rules

import "github.com/crucible-games/boardroom/internal/game"

// ImmunityRule exempts qualifying teams from a challenge's consequence
// effects. A team qualifies by holding the named option from the named
// phase: it selected the option there and never sacrificed it in a later
// exchange.
type ImmunityRule struct {
	// ID identifies the rule; immunity-benefit reveals reference it.
	ID string
	// Challenge is the challenge rule the immunity shields.
	Challenge string
	// Phase is the decision phase holding the qualifying option.
	Phase string
	// Option is the qualifying option id.
	Option string
}

// HasImmunity reports whether the history qualifies for the rule.
func HasImmunity(history game.History, rule ImmunityRule) bool {
	return history.Holds(rule.Phase, rule.Option)
}

// ImmunityFor returns the first rule in order the history qualifies for.
func ImmunityFor(history game.History, candidates []ImmunityRule) (ImmunityRule, bool) {
	for _, rule := range candidates {
		if HasImmunity(history, rule) {
			return rule, true
		}
	}
	return ImmunityRule{}, false
}
