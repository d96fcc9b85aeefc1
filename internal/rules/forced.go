package rules

import (
	"strings"

	"github.com/crucible-games/boardroom/internal/game"
)

// ForcedRule overrides a qualifying team's selection during a later
// challenge. Qualification works exactly like immunity: the team holds the
// named option from the named phase. Instead of a skip, the rule yields the
// option the team is locked into.
type ForcedRule struct {
	ID string
	// Challenge is the challenge whose selection the rule overrides.
	Challenge string
	// Phase and Option are the qualifying earlier decision.
	Phase  string
	Option string
	// Forces is the challenge option the team must take. When empty the
	// qualifying option doubles as the forced outcome, covering challenges
	// that re-present earlier options.
	Forces string
}

// ForcedTarget returns the option id the rule locks qualifying teams into.
func (r ForcedRule) ForcedTarget() string {
	if strings.TrimSpace(r.Forces) != "" {
		return r.Forces
	}
	return r.Option
}

// ForcedOption returns the option the history is locked into, or "" when
// the rule does not apply.
func ForcedOption(history game.History, rule ForcedRule) string {
	if !history.Holds(rule.Phase, rule.Option) {
		return ""
	}
	return rule.ForcedTarget()
}

// ForcedOptionFor evaluates candidate rules in order and returns the first
// forced option, or "" when none applies.
func ForcedOptionFor(history game.History, candidates []ForcedRule) string {
	for _, rule := range candidates {
		if forced := ForcedOption(history, rule); forced != "" {
			return forced
		}
	}
	return ""
}
