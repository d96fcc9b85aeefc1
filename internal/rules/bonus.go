package rules

import (
	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/indicator"
)

// BonusMode selects how a bonus changes the base effect set.
type BonusMode string

const (
	// BonusScale multiplies every base effect value by Factor.
	BonusScale BonusMode = "scale"
	// BonusExtend appends Effects after the base set.
	BonusExtend BonusMode = "extend"
)

// BonusRule conditionally strengthens an effect set at application time.
// The rule targets one (rule, option) effect set and qualifies teams by an
// earlier held decision, the same shape immunity uses. Bonuses are evaluated
// inline when effects are computed, never pre-applied.
type BonusRule struct {
	ID string
	// Rule and Option name the effect set the bonus modifies.
	Rule   string
	Option string
	// Phase and RequiredOption are the qualifying earlier decision.
	Phase          string
	RequiredOption string
	Mode           BonusMode
	// Factor scales base effect values in scale mode.
	Factor float64
	// Effects are appended in extend mode.
	Effects []indicator.Effect
}

// BonusApplies reports whether the history qualifies for the bonus.
func BonusApplies(history game.History, bonus BonusRule) bool {
	return history.Holds(bonus.Phase, bonus.RequiredOption)
}

// ApplyBonuses returns the effect list after folding in every qualifying
// bonus, in rule order. Scale bonuses multiply all values accumulated so
// far, including effects appended by earlier extend bonuses; the base list
// is never modified.
func ApplyBonuses(base []indicator.Effect, history game.History, bonuses []BonusRule) []indicator.Effect {
	adjusted := make([]indicator.Effect, len(base))
	copy(adjusted, base)

	for _, bonus := range bonuses {
		if !BonusApplies(history, bonus) {
			continue
		}
		switch bonus.Mode {
		case BonusScale:
			for i := range adjusted {
				adjusted[i].Value *= bonus.Factor
			}
		case BonusExtend:
			adjusted = append(adjusted, bonus.Effects...)
		}
	}
	return adjusted
}
