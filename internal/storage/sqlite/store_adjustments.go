package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/storage"
)

func validateAdjustment(adj storage.Adjustment) (storage.Adjustment, error) {
	adj.SessionID = strings.TrimSpace(adj.SessionID)
	adj.TeamID = strings.TrimSpace(adj.TeamID)
	adj.Indicator = strings.TrimSpace(adj.Indicator)
	adj.Source = strings.TrimSpace(adj.Source)
	if adj.SessionID == "" {
		return storage.Adjustment{}, fmt.Errorf("session id is required")
	}
	if adj.TeamID == "" {
		return storage.Adjustment{}, fmt.Errorf("team id is required")
	}
	if adj.Round < 1 {
		return storage.Adjustment{}, fmt.Errorf("round must be greater than zero")
	}
	if !indicator.Known(adj.Indicator) {
		return storage.Adjustment{}, fmt.Errorf("%w: %q", indicator.ErrUnknownIndicator, adj.Indicator)
	}
	if adj.Source == "" {
		return storage.Adjustment{}, fmt.Errorf("adjustment source is required")
	}
	return adj, nil
}

// UpsertAdjustments writes a batch of permanent adjustments in one
// transaction, in slice order. A replayed (session, team, round, indicator,
// source) key rewrites the existing row and keeps its original seq, so a
// re-run of the same trigger cannot reorder or duplicate the ledger.
func (s *Store) UpsertAdjustments(ctx context.Context, adjustments []storage.Adjustment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(adjustments) == 0 {
		return nil
	}
	normalized := make([]storage.Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		valid, err := validateAdjustment(adj)
		if err != nil {
			return err
		}
		normalized = append(normalized, valid)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin adjustment batch write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback adjustment batch write: %v", cause, rollbackErr)
		}
		return cause
	}

	for _, adj := range normalized {
		createdAt := adj.CreatedAt.UTC()
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		percent := 0
		if adj.Percent {
			percent = 1
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO adjustments (
			   session_id, team_id, round, indicator,
			   change_value, is_percentage, source, note, created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(session_id, team_id, round, indicator, source) DO UPDATE SET
			   change_value = excluded.change_value,
			   is_percentage = excluded.is_percentage,
			   note = excluded.note`,
			adj.SessionID,
			adj.TeamID,
			adj.Round,
			adj.Indicator,
			adj.Value,
			percent,
			adj.Source,
			adj.Note,
			toMillis(createdAt),
		)
		if err != nil {
			return rollbackWith(fmt.Errorf("upsert adjustment: %w", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit adjustment batch write: %w", err)
	}
	return nil
}

// ListAdjustments returns a session's adjustments in seq order.
func (s *Store) ListAdjustments(ctx context.Context, sessionID string) ([]storage.Adjustment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, session_id, team_id, round, indicator,
		        change_value, is_percentage, source, note, created_at
		   FROM adjustments
		  WHERE session_id = ?
		  ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []storage.Adjustment
	for rows.Next() {
		var adj storage.Adjustment
		var percent int
		var createdAt int64
		if err := rows.Scan(
			&adj.Seq,
			&adj.SessionID,
			&adj.TeamID,
			&adj.Round,
			&adj.Indicator,
			&adj.Value,
			&percent,
			&adj.Source,
			&adj.Note,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list adjustments: %w", err)
		}
		adj.Percent = percent != 0
		adj.CreatedAt = fromMillis(createdAt)
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	return adjustments, nil
}

var _ storage.AdjustmentStore = (*Store)(nil)
