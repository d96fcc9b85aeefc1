package rules

import (
	"testing"

	"github.com/crucible-games/boardroom/internal/game"
)

func strikeImmunity() ImmunityRule {
	return ImmunityRule{
		ID:        "imm_strike",
		Challenge: "chl_strike",
		Phase:     "r1_invest",
		Option:    "opt_training",
	}
}

func TestHasImmunity(t *testing.T) {
	rule := strikeImmunity()
	tests := []struct {
		name    string
		history game.History
		want    bool
	}{
		{
			name: "holds qualifying option",
			history: game.History{
				{PhaseID: "r1_invest", OptionIDs: []string{"opt_training", "opt_markets"}},
			},
			want: true,
		},
		{
			name: "selected a different option",
			history: game.History{
				{PhaseID: "r1_invest", OptionIDs: []string{"opt_markets"}},
			},
			want: false,
		},
		{
			name:    "no decision for the phase",
			history: game.History{},
			want:    false,
		},
		{
			name: "sacrificed the option in a later exchange",
			history: game.History{
				{PhaseID: "r1_invest", OptionIDs: []string{"opt_training"}},
				{PhaseID: "r2_exchange", OptionIDs: []string{"opt_double_down"}, SacrificedOptionID: "opt_training"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasImmunity(tt.history, rule); got != tt.want {
				t.Fatalf("HasImmunity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImmunityForReturnsFirstMatch(t *testing.T) {
	candidates := []ImmunityRule{
		{ID: "imm_a", Challenge: "chl_strike", Phase: "r1_invest", Option: "opt_a"},
		{ID: "imm_b", Challenge: "chl_strike", Phase: "r1_invest", Option: "opt_b"},
	}
	history := game.History{
		{PhaseID: "r1_invest", OptionIDs: []string{"opt_b"}},
	}

	rule, ok := ImmunityFor(history, candidates)
	if !ok {
		t.Fatal("expected a matching rule")
	}
	if rule.ID != "imm_b" {
		t.Fatalf("rule id = %q, want %q", rule.ID, "imm_b")
	}
}

func TestImmunityForNoMatch(t *testing.T) {
	history := game.History{
		{PhaseID: "r1_invest", OptionIDs: []string{"opt_markets"}},
	}
	if _, ok := ImmunityFor(history, []ImmunityRule{strikeImmunity()}); ok {
		t.Fatal("expected no matching rule")
	}
}
