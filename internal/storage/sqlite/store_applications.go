package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crucible-games/boardroom/internal/storage"
)

func validateApplication(record storage.ApplicationRecord) (storage.ApplicationRecord, error) {
	record.SessionID = strings.TrimSpace(record.SessionID)
	record.TeamID = strings.TrimSpace(record.TeamID)
	record.RuleID = strings.TrimSpace(record.RuleID)
	record.OptionID = strings.TrimSpace(record.OptionID)
	record.TriggerID = strings.TrimSpace(record.TriggerID)
	if record.SessionID == "" {
		return storage.ApplicationRecord{}, fmt.Errorf("session id is required")
	}
	if record.TeamID == "" {
		return storage.ApplicationRecord{}, fmt.Errorf("team id is required")
	}
	if record.RuleID == "" {
		return storage.ApplicationRecord{}, fmt.Errorf("rule id is required")
	}
	if record.OptionID == "" {
		return storage.ApplicationRecord{}, fmt.Errorf("option id is required")
	}
	return record, nil
}

// HasBeenApplied reports whether a (session, team, rule, option) application
// is already on the ledger.
func (s *Store) HasBeenApplied(ctx context.Context, sessionID, teamID, ruleID, optionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	record, err := validateApplication(storage.ApplicationRecord{
		SessionID: sessionID,
		TeamID:    teamID,
		RuleID:    ruleID,
		OptionID:  optionID,
	})
	if err != nil {
		return false, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT 1
		   FROM applications
		  WHERE session_id = ? AND team_id = ? AND rule_id = ? AND option_id = ?`,
		record.SessionID,
		record.TeamID,
		record.RuleID,
		record.OptionID,
	)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check application: %w", err)
	}
	return true, nil
}

// RecordApplications appends a batch of ledger records in one transaction.
// Records whose (session, team, rule, option) key already exists are kept
// untouched: the first reveal to commit wins the audit trail.
func (s *Store) RecordApplications(ctx context.Context, records []storage.ApplicationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(records) == 0 {
		return nil
	}
	normalized := make([]storage.ApplicationRecord, 0, len(records))
	for _, record := range records {
		valid, err := validateApplication(record)
		if err != nil {
			return err
		}
		normalized = append(normalized, valid)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin application batch write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback application batch write: %v", cause, rollbackErr)
		}
		return cause
	}

	for _, record := range normalized {
		appliedAt := record.AppliedAt.UTC()
		if appliedAt.IsZero() {
			appliedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO applications (
			   session_id, team_id, rule_id, option_id, trigger_id, applied_at
			 ) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(session_id, team_id, rule_id, option_id) DO NOTHING`,
			record.SessionID,
			record.TeamID,
			record.RuleID,
			record.OptionID,
			record.TriggerID,
			toMillis(appliedAt),
		)
		if err != nil {
			return rollbackWith(fmt.Errorf("record application: %w", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit application batch write: %w", err)
	}
	return nil
}

var _ storage.LedgerStore = (*Store)(nil)
