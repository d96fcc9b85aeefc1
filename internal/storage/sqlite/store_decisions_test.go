package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/storage"
)

func TestPutGetDecisionRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	decision := game.Decision{
		SessionID:          "sess-1",
		TeamID:             "team-1",
		PhaseID:            "r1_invest",
		OptionIDs:          []string{"opt_line_upgrade", "opt_training"},
		Spend:              350000,
		SacrificedOptionID: "",
		RecordedAt:         now,
	}
	if err := store.PutDecision(context.Background(), decision); err != nil {
		t.Fatalf("put decision: %v", err)
	}

	got, err := store.GetDecision(context.Background(), "sess-1", "team-1", "r1_invest")
	if err != nil {
		t.Fatalf("get decision: %v", err)
	}
	if len(got.OptionIDs) != 2 || got.OptionIDs[0] != "opt_line_upgrade" || got.OptionIDs[1] != "opt_training" {
		t.Fatalf("option ids = %v, want [opt_line_upgrade opt_training]", got.OptionIDs)
	}
	if got.Spend != 350000 {
		t.Fatalf("spend = %d, want 350000", got.Spend)
	}
	if !got.RecordedAt.Equal(now) {
		t.Fatalf("recorded_at = %v, want %v", got.RecordedAt, now)
	}
}

func TestGetDecisionReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetDecision(context.Background(), "sess-1", "team-1", "r1_invest")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get decision error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestPutDecisionReplacesEarlierSubmission(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 14, 10, 15, 0, 0, time.UTC)
	first := game.Decision{
		SessionID:  "sess-1",
		TeamID:     "team-1",
		PhaseID:    "chl_recall",
		OptionIDs:  []string{"quiet_fix"},
		RecordedAt: now,
	}
	if err := store.PutDecision(context.Background(), first); err != nil {
		t.Fatalf("put first decision: %v", err)
	}
	second := game.Decision{
		SessionID:          "sess-1",
		TeamID:             "team-1",
		PhaseID:            "chl_recall",
		OptionIDs:          []string{"full_recall", "pr_campaign"},
		SacrificedOptionID: "opt_markets",
		RecordedAt:         now.Add(time.Minute),
	}
	if err := store.PutDecision(context.Background(), second); err != nil {
		t.Fatalf("put second decision: %v", err)
	}

	decisions, err := store.ListDecisions(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("list decisions: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("decisions len = %d, want 1", len(decisions))
	}
	got := decisions[0]
	if len(got.OptionIDs) != 2 || got.OptionIDs[0] != "full_recall" {
		t.Fatalf("option ids = %v, want replacement selection", got.OptionIDs)
	}
	if got.SacrificedOptionID != "opt_markets" {
		t.Fatalf("sacrificed option = %q, want %q", got.SacrificedOptionID, "opt_markets")
	}
}

func TestPutDecisionKeepsDeliberatePassEmpty(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	decision := game.Decision{
		SessionID:  "sess-1",
		TeamID:     "team-1",
		PhaseID:    "r1_invest",
		OptionIDs:  nil,
		RecordedAt: time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC),
	}
	if err := store.PutDecision(context.Background(), decision); err != nil {
		t.Fatalf("put decision: %v", err)
	}

	got, err := store.GetDecision(context.Background(), "sess-1", "team-1", "r1_invest")
	if err != nil {
		t.Fatalf("get decision: %v", err)
	}
	if len(got.OptionIDs) != 0 {
		t.Fatalf("option ids = %v, want empty", got.OptionIDs)
	}
}

func TestListDecisionsOrdersByRecordTime(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.March, 14, 11, 0, 0, 0, time.UTC)
	inputs := []game.Decision{
		{SessionID: "sess-1", TeamID: "team-2", PhaseID: "r1_invest", OptionIDs: []string{"opt_training"}, RecordedAt: base.Add(2 * time.Minute)},
		{SessionID: "sess-1", TeamID: "team-1", PhaseID: "r1_invest", OptionIDs: []string{"opt_markets"}, RecordedAt: base},
		{SessionID: "sess-2", TeamID: "team-1", PhaseID: "r1_invest", OptionIDs: []string{"opt_safety_audit"}, RecordedAt: base.Add(time.Minute)},
	}
	for _, decision := range inputs {
		if err := store.PutDecision(context.Background(), decision); err != nil {
			t.Fatalf("put decision for %s: %v", decision.TeamID, err)
		}
	}

	got, err := store.ListDecisions(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("list decisions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("decisions len = %d, want 2", len(got))
	}
	if got[0].TeamID != "team-1" || got[1].TeamID != "team-2" {
		t.Fatalf("decision order = %q, %q, want team-1, team-2", got[0].TeamID, got[1].TeamID)
	}
}
