package content

import (
	"fmt"
	"strings"

	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/rules"
)

// Validate checks the pack is internally consistent. It is called by Load;
// hand-built packs in tests call it directly.
func (p Pack) Validate() error {
	if strings.TrimSpace(p.Version) == "" {
		return fmt.Errorf("content pack: version is required")
	}
	if p.Rounds < 1 {
		return fmt.Errorf("content pack %s: rounds must be at least 1", p.Version)
	}
	if p.MaterialUnitCost < 0 {
		return fmt.Errorf("content pack %s: material unit cost cannot be negative", p.Version)
	}
	if err := p.RateTable.Validate(); err != nil {
		return fmt.Errorf("content pack %s: rate table: %w", p.Version, err)
	}
	if err := p.validateBaselines(); err != nil {
		return err
	}
	if err := p.validateEffectSets(); err != nil {
		return err
	}
	if err := p.validateTriggers(); err != nil {
		return err
	}
	if err := p.validateRuleTables(); err != nil {
		return err
	}
	return nil
}

func (p Pack) validateBaselines() error {
	seen := make(map[int]bool, len(p.Baselines))
	for _, b := range p.Baselines {
		if b.Round < 1 || b.Round > p.Rounds {
			return fmt.Errorf("content pack %s: baseline round %d outside 1..%d", p.Version, b.Round, p.Rounds)
		}
		if seen[b.Round] {
			return fmt.Errorf("content pack %s: duplicate baseline for round %d", p.Version, b.Round)
		}
		seen[b.Round] = true
	}
	for round := 1; round <= p.Rounds; round++ {
		if !seen[round] {
			return fmt.Errorf("content pack %s: missing baseline for round %d", p.Version, round)
		}
	}
	return nil
}

func (p Pack) validateEffectSets() error {
	seen := make(map[string]bool, len(p.EffectSets))
	for _, set := range p.EffectSets {
		if strings.TrimSpace(set.Rule) == "" {
			return fmt.Errorf("content pack %s: effect set without a rule id", p.Version)
		}
		if strings.TrimSpace(set.Option) == "" {
			return fmt.Errorf("content pack %s: effect set %s without an option id", p.Version, set.Rule)
		}
		key := set.Rule + "/" + set.Option
		if seen[key] {
			return fmt.Errorf("content pack %s: duplicate effect set %s", p.Version, key)
		}
		seen[key] = true
		if len(set.Effects) == 0 {
			return fmt.Errorf("content pack %s: effect set %s is empty", p.Version, key)
		}
		if err := p.validateEffects(key, set.Effects); err != nil {
			return err
		}
	}
	return nil
}

// validateEffects checks indicator names, timings, and permanent rounds.
// A set may carry at most one permanent effect per (indicator, round): the
// adjustment ledger keys replays by (team, round, indicator, source), and
// the source is the set, so a second one would silently overwrite the first.
func (p Pack) validateEffects(setKey string, effects []indicator.Effect) error {
	type permKey struct {
		indicator string
		round     int
	}
	permanent := make(map[permKey]bool)
	for i, effect := range effects {
		if !indicator.Known(effect.Indicator) {
			return fmt.Errorf("content pack %s: effect set %s: effect %d names unknown indicator %q", p.Version, setKey, i, effect.Indicator)
		}
		switch effect.Timing {
		case indicator.TimingImmediate:
			if len(effect.Rounds) != 0 {
				return fmt.Errorf("content pack %s: effect set %s: effect %d is immediate but lists rounds", p.Version, setKey, i)
			}
		case indicator.TimingPermanent:
			if len(effect.Rounds) == 0 {
				return fmt.Errorf("content pack %s: effect set %s: effect %d is permanent but lists no rounds", p.Version, setKey, i)
			}
			for _, round := range effect.Rounds {
				if round < 2 || round > p.Rounds {
					return fmt.Errorf("content pack %s: effect set %s: effect %d targets round %d outside 2..%d", p.Version, setKey, i, round, p.Rounds)
				}
				key := permKey{indicator: effect.Indicator, round: round}
				if permanent[key] {
					return fmt.Errorf("content pack %s: effect set %s: second permanent %s effect for round %d", p.Version, setKey, effect.Indicator, round)
				}
				permanent[key] = true
			}
		default:
			return fmt.Errorf("content pack %s: effect set %s: effect %d has unknown timing %q", p.Version, setKey, i, effect.Timing)
		}
	}
	return nil
}

func (p Pack) validateTriggers() error {
	seen := make(map[string]bool, len(p.Triggers))
	for _, trigger := range p.Triggers {
		if strings.TrimSpace(trigger.ID) == "" {
			return fmt.Errorf("content pack %s: trigger without an id", p.Version)
		}
		if seen[trigger.ID] {
			return fmt.Errorf("content pack %s: duplicate trigger %s", p.Version, trigger.ID)
		}
		seen[trigger.ID] = true
		if !KnownFamily(trigger.Family) {
			return fmt.Errorf("content pack %s: trigger %s has unknown family %q", p.Version, trigger.ID, trigger.Family)
		}
		if trigger.Round < 1 || trigger.Round > p.Rounds {
			return fmt.Errorf("content pack %s: trigger %s round %d outside 1..%d", p.Version, trigger.ID, trigger.Round, p.Rounds)
		}

		switch trigger.Family {
		case FamilyRoundStart:
			continue
		case FamilyChallenge:
			if strings.TrimSpace(trigger.Rule) == "" {
				return fmt.Errorf("content pack %s: trigger %s needs a rule", p.Version, trigger.ID)
			}
			if strings.TrimSpace(trigger.Phase) == "" {
				return fmt.Errorf("content pack %s: trigger %s needs a phase", p.Version, trigger.ID)
			}
			if len(trigger.Selections) == 0 {
				return fmt.Errorf("content pack %s: trigger %s covers no selections", p.Version, trigger.ID)
			}
			for _, selection := range trigger.Selections {
				if selection != rules.SelectionKey(strings.Split(selection, "+")) {
					return fmt.Errorf("content pack %s: trigger %s selection %q is not canonical", p.Version, trigger.ID, selection)
				}
				if _, ok := p.EffectsFor(trigger.Rule, selection); !ok {
					return fmt.Errorf("content pack %s: trigger %s selection %q has no effect set %s/%s", p.Version, trigger.ID, selection, trigger.Rule, selection)
				}
			}
		default:
			if strings.TrimSpace(trigger.Rule) == "" {
				return fmt.Errorf("content pack %s: trigger %s needs a rule", p.Version, trigger.ID)
			}
			if strings.TrimSpace(trigger.Option) == "" {
				return fmt.Errorf("content pack %s: trigger %s needs an option", p.Version, trigger.ID)
			}
			if trigger.Family == FamilyInvestment && strings.TrimSpace(trigger.Phase) == "" {
				return fmt.Errorf("content pack %s: trigger %s needs a phase", p.Version, trigger.ID)
			}
			if _, ok := p.EffectsFor(trigger.Rule, trigger.Option); !ok {
				return fmt.Errorf("content pack %s: trigger %s has no effect set %s/%s", p.Version, trigger.ID, trigger.Rule, trigger.Option)
			}
		}
	}
	return nil
}

func (p Pack) validateRuleTables() error {
	for _, rule := range p.Immunities {
		if strings.TrimSpace(rule.ID) == "" || strings.TrimSpace(rule.Challenge) == "" ||
			strings.TrimSpace(rule.Phase) == "" || strings.TrimSpace(rule.Option) == "" {
			return fmt.Errorf("content pack %s: immunity rule %q needs id, challenge, phase, and option", p.Version, rule.ID)
		}
	}
	for _, rule := range p.Forced {
		if strings.TrimSpace(rule.ID) == "" || strings.TrimSpace(rule.Challenge) == "" ||
			strings.TrimSpace(rule.Phase) == "" || strings.TrimSpace(rule.Option) == "" {
			return fmt.Errorf("content pack %s: forced rule %q needs id, challenge, phase, and option", p.Version, rule.ID)
		}
	}
	for _, rule := range p.Combinations {
		if strings.TrimSpace(rule.Challenge) == "" {
			return fmt.Errorf("content pack %s: combination rule without a challenge", p.Version)
		}
		if len(rule.Allowed) == 0 {
			return fmt.Errorf("content pack %s: combination rule %s allows nothing", p.Version, rule.Challenge)
		}
		for i, combo := range rule.Allowed {
			if rules.SelectionKey(combo) == "" {
				return fmt.Errorf("content pack %s: combination rule %s: allowed set %d is empty", p.Version, rule.Challenge, i)
			}
		}
	}
	for _, bonus := range p.Bonuses {
		if strings.TrimSpace(bonus.ID) == "" {
			return fmt.Errorf("content pack %s: bonus rule without an id", p.Version)
		}
		if strings.TrimSpace(bonus.Rule) == "" || strings.TrimSpace(bonus.Option) == "" {
			return fmt.Errorf("content pack %s: bonus %s needs a target rule and option", p.Version, bonus.ID)
		}
		if _, ok := p.EffectsFor(bonus.Rule, bonus.Option); !ok {
			return fmt.Errorf("content pack %s: bonus %s targets undefined effect set %s/%s", p.Version, bonus.ID, bonus.Rule, bonus.Option)
		}
		if strings.TrimSpace(bonus.Phase) == "" || strings.TrimSpace(bonus.RequiredOption) == "" {
			return fmt.Errorf("content pack %s: bonus %s needs a qualifying phase and option", p.Version, bonus.ID)
		}
		switch bonus.Mode {
		case rules.BonusScale:
			if bonus.Factor <= 0 {
				return fmt.Errorf("content pack %s: bonus %s scale factor must be positive", p.Version, bonus.ID)
			}
		case rules.BonusExtend:
			if len(bonus.Effects) == 0 {
				return fmt.Errorf("content pack %s: bonus %s extends with no effects", p.Version, bonus.ID)
			}
			if err := p.validateEffects("bonus "+bonus.ID, bonus.Effects); err != nil {
				return err
			}
		default:
			return fmt.Errorf("content pack %s: bonus %s has unknown mode %q", p.Version, bonus.ID, bonus.Mode)
		}
	}
	return nil
}
