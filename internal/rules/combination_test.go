package rules

import "testing"

func recallWhitelist() [][]string {
	return [][]string{
		{"opt_full_recall"},
		{"opt_quiet_fix"},
		{"opt_full_recall", "opt_pr_campaign"},
	}
}

func TestSelectionKey(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		want    string
	}{
		{name: "single option", options: []string{"opt_a"}, want: "opt_a"},
		{name: "sorted ascending", options: []string{"opt_b", "opt_a"}, want: "opt_a+opt_b"},
		{name: "duplicates collapse", options: []string{"opt_a", "opt_a", "opt_b"}, want: "opt_a+opt_b"},
		{name: "blank entries dropped", options: []string{" ", "opt_a", ""}, want: "opt_a"},
		{name: "empty selection", options: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectionKey(tt.options); got != tt.want {
				t.Fatalf("SelectionKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidCombination(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{name: "single listed option", selected: []string{"opt_full_recall"}, want: true},
		{name: "listed pair in reverse order", selected: []string{"opt_pr_campaign", "opt_full_recall"}, want: true},
		{name: "unlisted pair", selected: []string{"opt_quiet_fix", "opt_pr_campaign"}, want: false},
		{name: "unlisted triple", selected: []string{"opt_full_recall", "opt_pr_campaign", "opt_quiet_fix"}, want: false},
		{name: "empty selection", selected: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCombination(recallWhitelist(), tt.selected); got != tt.want {
				t.Fatalf("IsValidCombination(%v) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}
}

func TestIsValidCombinationEmptyWhitelist(t *testing.T) {
	if IsValidCombination(nil, []string{"opt_a"}) {
		t.Fatal("empty whitelist must accept nothing")
	}
}

func TestCoversSelection(t *testing.T) {
	keys := []string{"opt_full_recall", "opt_full_recall+opt_pr_campaign"}
	if !CoversSelection(keys, "opt_full_recall+opt_pr_campaign") {
		t.Fatal("expected slide to cover the combination key")
	}
	if CoversSelection(keys, "opt_quiet_fix") {
		t.Fatal("slide must not cover an unmapped key")
	}
}
