package content

import (
	"github.com/crucible-games/boardroom/internal/finance"
	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/rules"
)

// Family classifies what a reveal trigger does.
type Family string

const (
	// FamilySetup applies its effect set to every team unconditionally.
	FamilySetup Family = "setup"
	// FamilyInvestment pays off an investment option for the teams that
	// selected it and still hold it.
	FamilyInvestment Family = "investment"
	// FamilyChallenge applies consequence effects for the teams whose
	// challenge selection matches the binding, minus immune teams.
	FamilyChallenge Family = "challenge"
	// FamilyBenefit rewards the teams holding an immunity qualification.
	FamilyBenefit Family = "benefit"
	// FamilyRoundStart resets every team's indicators for the bound round.
	FamilyRoundStart Family = "roundstart"
)

// KnownFamily reports whether the family is one the engine can resolve.
func KnownFamily(f Family) bool {
	switch f {
	case FamilySetup, FamilyInvestment, FamilyChallenge, FamilyBenefit, FamilyRoundStart:
		return true
	}
	return false
}

// Baseline fixes one round's start values. Round resets always begin here,
// never from the prior round's finals.
type Baseline struct {
	Round     int
	Capacity  float64
	Orders    float64
	Cost      float64
	UnitPrice float64
}

// TriggerBinding maps one reveal trigger id to the rule it resolves.
type TriggerBinding struct {
	ID     string
	Family Family
	// Rule names the rule whose effect sets and rule tables apply.
	Rule string
	// Option is the effect-set option for setup, investment, and benefit
	// triggers. Challenge triggers leave it empty and use Selections.
	Option string
	// Selections lists the canonical selection keys a challenge reveal
	// covers. A team qualifies when its (possibly forced) selection key is
	// in this list.
	Selections []string
	// Phase is the decision phase consulted for qualification.
	Phase string
	// Round the trigger belongs to. Roundstart triggers reset this round.
	Round int
}

// EffectSet is the effect list one (rule, option) application carries.
// Challenge effect sets use the selection key as the option.
type EffectSet struct {
	Rule    string
	Option  string
	Effects []indicator.Effect
}

// Pack is one game version's immutable content.
type Pack struct {
	Version          string
	Rounds           int
	MaterialUnitCost float64
	RateTable        finance.RateTable
	Baselines        []Baseline
	Triggers         []TriggerBinding
	EffectSets       []EffectSet
	Immunities       []rules.ImmunityRule
	Forced           []rules.ForcedRule
	Combinations     []rules.CombinationRule
	Bonuses          []rules.BonusRule
}

// BaselineFor returns the start values fixed for a round.
func (p Pack) BaselineFor(round int) (Baseline, bool) {
	for _, b := range p.Baselines {
		if b.Round == round {
			return b, true
		}
	}
	return Baseline{}, false
}

// TriggerByID returns the binding for a trigger id.
func (p Pack) TriggerByID(id string) (TriggerBinding, bool) {
	for _, t := range p.Triggers {
		if t.ID == id {
			return t, true
		}
	}
	return TriggerBinding{}, false
}

// EffectsFor returns the effect list for a (rule, option) application.
func (p Pack) EffectsFor(rule, option string) ([]indicator.Effect, bool) {
	for _, set := range p.EffectSets {
		if set.Rule == rule && set.Option == option {
			return set.Effects, true
		}
	}
	return nil, false
}

// ImmunitiesFor returns the immunity rules shielding a challenge.
func (p Pack) ImmunitiesFor(challenge string) []rules.ImmunityRule {
	var out []rules.ImmunityRule
	for _, rule := range p.Immunities {
		if rule.Challenge == challenge {
			out = append(out, rule)
		}
	}
	return out
}

// ForcedFor returns the forced-option rules overriding a challenge.
func (p Pack) ForcedFor(challenge string) []rules.ForcedRule {
	var out []rules.ForcedRule
	for _, rule := range p.Forced {
		if rule.Challenge == challenge {
			out = append(out, rule)
		}
	}
	return out
}

// CombinationFor returns the selection whitelist guarding a challenge.
// Challenges without one accept any defined selection.
func (p Pack) CombinationFor(challenge string) (rules.CombinationRule, bool) {
	for _, rule := range p.Combinations {
		if rule.Challenge == challenge {
			return rule, true
		}
	}
	return rules.CombinationRule{}, false
}

// BonusesFor returns the bonus rules attached to a (rule, option) effect
// set, in pack order.
func (p Pack) BonusesFor(rule, option string) []rules.BonusRule {
	var out []rules.BonusRule
	for _, bonus := range p.Bonuses {
		if bonus.Rule == rule && bonus.Option == option {
			out = append(out, bonus)
		}
	}
	return out
}
