package game

import (
	"testing"
	"time"
)

func historyFixture() History {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	return History{
		{
			SessionID:  "sess-1",
			TeamID:     "team-1",
			PhaseID:    "phase-invest",
			OptionIDs:  []string{"inv-a", "inv-b"},
			RecordedAt: base,
		},
		{
			SessionID:          "sess-1",
			TeamID:             "team-1",
			PhaseID:            "phase-exchange",
			OptionIDs:          []string{"inv-c"},
			SacrificedOptionID: "inv-b",
			RecordedAt:         base.Add(time.Hour),
		},
	}
}

func TestByTeamGroupsAndSorts(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	decisions := []Decision{
		{TeamID: "team-2", PhaseID: "phase-b", RecordedAt: base.Add(time.Hour)},
		{TeamID: "team-1", PhaseID: "phase-a", RecordedAt: base},
		{TeamID: "team-2", PhaseID: "phase-a", RecordedAt: base},
	}

	grouped := ByTeam(decisions)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(grouped))
	}
	teamTwo := grouped["team-2"]
	if len(teamTwo) != 2 {
		t.Fatalf("expected 2 decisions for team-2, got %d", len(teamTwo))
	}
	if teamTwo[0].PhaseID != "phase-a" || teamTwo[1].PhaseID != "phase-b" {
		t.Fatalf("expected decisions sorted by record time, got %q then %q", teamTwo[0].PhaseID, teamTwo[1].PhaseID)
	}
}

func TestHistorySelected(t *testing.T) {
	h := historyFixture()

	if !h.Selected("phase-invest", "inv-a") {
		t.Fatal("expected inv-a to be selected in phase-invest")
	}
	if h.Selected("phase-invest", "inv-c") {
		t.Fatal("expected inv-c to be absent from phase-invest")
	}
	if h.Selected("phase-missing", "inv-a") {
		t.Fatal("expected no selection for unknown phase")
	}
}

func TestHistoryHoldsRespectsSacrifice(t *testing.T) {
	h := historyFixture()

	if !h.Holds("phase-invest", "inv-a") {
		t.Fatal("expected team to hold inv-a")
	}
	if h.Holds("phase-invest", "inv-b") {
		t.Fatal("expected inv-b to be revoked by the exchange")
	}
	if !h.Sacrificed("inv-b") {
		t.Fatal("expected inv-b to be recorded as sacrificed")
	}
	if h.Sacrificed("") {
		t.Fatal("expected empty option id to never match a sacrifice")
	}
}
