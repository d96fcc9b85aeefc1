package content

import (
	"strings"
	"testing"

	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/rules"
)

const minimalPackYAML = `
version: test
rounds: 2
material_unit_cost: 400
rate_table:
  - threshold: 0
    rate: 0.30
  - threshold: 0.15
    rate: 0.26
baselines:
  - round: 1
    capacity: 5000
    orders: 6250
    cost: 1200000
    unit_price: 1000
  - round: 2
    capacity: 5200
    orders: 6500
    cost: 1250000
    unit_price: 980
triggers:
  - id: trg_invest
    family: investment
    rule: rule_invest
    option: opt_a
    phase: p1
    round: 1
  - id: trg_challenge
    family: challenge
    rule: rule_crisis
    phase: p2
    round: 1
    selections: [opt_x, opt_x+opt_y]
  - id: trg_reset
    family: roundstart
    round: 2
effect_sets:
  - rule: rule_invest
    option: opt_a
    effects:
      - indicator: capacity
        value: 1000
        timing: immediate
        note: more output
      - indicator: capacity
        value: 125
        timing: permanent
        rounds: [2]
        note: carries forward
  - rule: rule_crisis
    option: opt_x
    effects:
      - indicator: orders
        value: -5
        percent: true
        timing: immediate
  - rule: rule_crisis
    option: opt_x+opt_y
    effects:
      - indicator: orders
        value: -2
        percent: true
        timing: immediate
immunities:
  - id: imm_a
    challenge: rule_crisis
    phase: p1
    option: opt_a
forced:
  - id: frc_a
    challenge: rule_crisis
    phase: p1
    option: opt_a
    forces: opt_x
combinations:
  - challenge: rule_crisis
    allowed:
      - [opt_x]
      - [opt_x, opt_y]
bonuses:
  - id: bns_a
    rule: rule_crisis
    option: opt_x
    phase: p1
    required_option: opt_a
    mode: scale
    factor: 0.5
`

func TestLoadParsesFullPack(t *testing.T) {
	pack, err := Load(strings.NewReader(minimalPackYAML))
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}

	if pack.Version != "test" {
		t.Fatalf("version = %q, want %q", pack.Version, "test")
	}
	if pack.Rounds != 2 {
		t.Fatalf("rounds = %d, want 2", pack.Rounds)
	}
	if pack.MaterialUnitCost != 400 {
		t.Fatalf("material unit cost = %v, want 400", pack.MaterialUnitCost)
	}
	if got := pack.RateTable.RateFor(0.10); got != 0.30 {
		t.Fatalf("rate for 0.10 = %v, want 0.30", got)
	}

	baseline, ok := pack.BaselineFor(2)
	if !ok {
		t.Fatal("missing baseline for round 2")
	}
	if baseline.Capacity != 5200 || baseline.UnitPrice != 980 {
		t.Fatalf("baseline 2 = %+v, want capacity 5200 unit price 980", baseline)
	}

	trigger, ok := pack.TriggerByID("trg_challenge")
	if !ok {
		t.Fatal("missing trigger trg_challenge")
	}
	if trigger.Family != FamilyChallenge {
		t.Fatalf("family = %q, want %q", trigger.Family, FamilyChallenge)
	}
	if len(trigger.Selections) != 2 || trigger.Selections[1] != "opt_x+opt_y" {
		t.Fatalf("selections = %v, want [opt_x opt_x+opt_y]", trigger.Selections)
	}

	effects, ok := pack.EffectsFor("rule_invest", "opt_a")
	if !ok {
		t.Fatal("missing effect set rule_invest/opt_a")
	}
	if len(effects) != 2 {
		t.Fatalf("effects len = %d, want 2", len(effects))
	}
	if effects[0].Timing != indicator.TimingImmediate || effects[0].Value != 1000 {
		t.Fatalf("first effect = %+v, want immediate +1000", effects[0])
	}
	if effects[1].Timing != indicator.TimingPermanent || len(effects[1].Rounds) != 1 || effects[1].Rounds[0] != 2 {
		t.Fatalf("second effect = %+v, want permanent round 2", effects[1])
	}

	if got := pack.ImmunitiesFor("rule_crisis"); len(got) != 1 || got[0].ID != "imm_a" {
		t.Fatalf("immunities = %v, want [imm_a]", got)
	}
	if got := pack.ForcedFor("rule_crisis"); len(got) != 1 || got[0].ForcedTarget() != "opt_x" {
		t.Fatalf("forced = %v, want forced target opt_x", got)
	}
	combo, ok := pack.CombinationFor("rule_crisis")
	if !ok {
		t.Fatal("missing combination rule for rule_crisis")
	}
	if !rules.IsValidCombination(combo.Allowed, []string{"opt_y", "opt_x"}) {
		t.Fatal("whitelisted selection rejected")
	}
	if got := pack.BonusesFor("rule_crisis", "opt_x"); len(got) != 1 || got[0].Mode != rules.BonusScale {
		t.Fatalf("bonuses = %v, want one scale bonus", got)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load(strings.NewReader("version: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRunsValidation(t *testing.T) {
	missingBaseline := strings.Replace(minimalPackYAML, "rounds: 2", "rounds: 3", 1)
	_, err := Load(strings.NewReader(missingBaseline))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "missing baseline for round 3") {
		t.Fatalf("error = %v, want missing baseline message", err)
	}
}
