package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/crucible-games/boardroom/internal/storage"
)

func TestHasBeenAppliedReportsLedgerState(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	applied, err := store.HasBeenApplied(context.Background(), "sess-1", "team-1", "rule_invest", "opt_line_upgrade")
	if err != nil {
		t.Fatalf("check empty ledger: %v", err)
	}
	if applied {
		t.Fatal("empty ledger reported applied = true, want false")
	}

	record := storage.ApplicationRecord{
		SessionID: "sess-1",
		TeamID:    "team-1",
		RuleID:    "rule_invest",
		OptionID:  "opt_line_upgrade",
		TriggerID: "trg_reveal_1",
		AppliedAt: time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC),
	}
	if err := store.RecordApplications(context.Background(), []storage.ApplicationRecord{record}); err != nil {
		t.Fatalf("record application: %v", err)
	}

	applied, err = store.HasBeenApplied(context.Background(), "sess-1", "team-1", "rule_invest", "opt_line_upgrade")
	if err != nil {
		t.Fatalf("check ledger: %v", err)
	}
	if !applied {
		t.Fatal("recorded application reported applied = false, want true")
	}
}

func TestHasBeenAppliedDistinguishesOptions(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	record := storage.ApplicationRecord{
		SessionID: "sess-1",
		TeamID:    "team-1",
		RuleID:    "rule_invest",
		OptionID:  "opt_line_upgrade",
		AppliedAt: time.Date(2026, time.March, 14, 15, 10, 0, 0, time.UTC),
	}
	if err := store.RecordApplications(context.Background(), []storage.ApplicationRecord{record}); err != nil {
		t.Fatalf("record application: %v", err)
	}

	applied, err := store.HasBeenApplied(context.Background(), "sess-1", "team-1", "rule_invest", "opt_training")
	if err != nil {
		t.Fatalf("check ledger: %v", err)
	}
	if applied {
		t.Fatal("different option reported applied = true, want false")
	}
}

func TestRecordApplicationsKeepsFirstWriterOnReplay(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 14, 15, 20, 0, 0, time.UTC)
	first := storage.ApplicationRecord{
		SessionID: "sess-1",
		TeamID:    "team-1",
		RuleID:    "rule_invest",
		OptionID:  "opt_line_upgrade",
		TriggerID: "trg_reveal_1",
		AppliedAt: now,
	}
	if err := store.RecordApplications(context.Background(), []storage.ApplicationRecord{first}); err != nil {
		t.Fatalf("record first application: %v", err)
	}

	replay := first
	replay.TriggerID = "trg_reveal_2"
	replay.AppliedAt = now.Add(time.Minute)
	if err := store.RecordApplications(context.Background(), []storage.ApplicationRecord{replay}); err != nil {
		t.Fatalf("record replayed application: %v", err)
	}

	row := store.sqlDB.QueryRowContext(
		context.Background(),
		`SELECT trigger_id, applied_at FROM applications
		  WHERE session_id = ? AND team_id = ? AND rule_id = ? AND option_id = ?`,
		"sess-1", "team-1", "rule_invest", "opt_line_upgrade",
	)
	var triggerID string
	var appliedAt int64
	if err := row.Scan(&triggerID, &appliedAt); err != nil {
		t.Fatalf("read ledger row: %v", err)
	}
	if triggerID != "trg_reveal_1" {
		t.Fatalf("trigger_id = %q, want first writer trg_reveal_1", triggerID)
	}
	if fromMillis(appliedAt) != now {
		t.Fatalf("applied_at = %v, want first writer %v", fromMillis(appliedAt), now)
	}
}

func TestRecordApplicationsValidatesKeys(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	testCases := []struct {
		name   string
		record storage.ApplicationRecord
	}{
		{name: "missing session", record: storage.ApplicationRecord{TeamID: "t", RuleID: "r", OptionID: "o"}},
		{name: "missing team", record: storage.ApplicationRecord{SessionID: "s", RuleID: "r", OptionID: "o"}},
		{name: "missing rule", record: storage.ApplicationRecord{SessionID: "s", TeamID: "t", OptionID: "o"}},
		{name: "missing option", record: storage.ApplicationRecord{SessionID: "s", TeamID: "t", RuleID: "r"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.RecordApplications(context.Background(), []storage.ApplicationRecord{tc.record})
			if err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
