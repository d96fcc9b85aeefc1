package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/storage"
)

const snapshotColumns = `session_id, team_id, round,
       start_capacity, start_orders, start_cost, start_unit_price,
       current_capacity, current_orders, current_cost, current_unit_price,
       revenue, net_income, net_margin, created_at, updated_at`

func validateSnapshotKey(snap indicator.Snapshot) (indicator.Snapshot, error) {
	snap.SessionID = strings.TrimSpace(snap.SessionID)
	snap.TeamID = strings.TrimSpace(snap.TeamID)
	if snap.SessionID == "" {
		return indicator.Snapshot{}, fmt.Errorf("session id is required")
	}
	if snap.TeamID == "" {
		return indicator.Snapshot{}, fmt.Errorf("team id is required")
	}
	if snap.Round < 1 {
		return indicator.Snapshot{}, fmt.Errorf("round must be greater than zero")
	}
	return snap, nil
}

func snapshotTimestamps(snap indicator.Snapshot) (createdAt, updatedAt time.Time) {
	createdAt = snap.CreatedAt.UTC()
	updatedAt = snap.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = time.Now().UTC()
		updatedAt = createdAt
		return createdAt, updatedAt
	}
	if createdAt.IsZero() {
		createdAt = updatedAt
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return createdAt, updatedAt
}

// CreateSnapshot inserts one snapshot row. A concurrent insert of the same
// (session, team, round) key reports storage.ErrAlreadyExists so the caller
// can re-read the winner's row.
func (s *Store) CreateSnapshot(ctx context.Context, snap indicator.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	snap, err := validateSnapshotKey(snap)
	if err != nil {
		return err
	}
	createdAt, updatedAt := snapshotTimestamps(snap)

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO snapshots (`+snapshotColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.SessionID,
		snap.TeamID,
		snap.Round,
		snap.StartCapacity,
		snap.StartOrders,
		snap.StartCost,
		snap.StartUnitPrice,
		snap.CurrentCapacity,
		snap.CurrentOrders,
		snap.CurrentCost,
		snap.CurrentUnitPrice,
		snap.Revenue,
		snap.NetIncome,
		snap.NetMargin,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

// UpdateSnapshot rewrites one existing snapshot row.
func (s *Store) UpdateSnapshot(ctx context.Context, snap indicator.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	snap, err := validateSnapshotKey(snap)
	if err != nil {
		return err
	}
	updatedAt := snap.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE snapshots SET
		   start_capacity = ?, start_orders = ?, start_cost = ?, start_unit_price = ?,
		   current_capacity = ?, current_orders = ?, current_cost = ?, current_unit_price = ?,
		   revenue = ?, net_income = ?, net_margin = ?, updated_at = ?
		 WHERE session_id = ? AND team_id = ? AND round = ?`,
		snap.StartCapacity,
		snap.StartOrders,
		snap.StartCost,
		snap.StartUnitPrice,
		snap.CurrentCapacity,
		snap.CurrentOrders,
		snap.CurrentCost,
		snap.CurrentUnitPrice,
		snap.Revenue,
		snap.NetIncome,
		snap.NetMargin,
		toMillis(updatedAt),
		snap.SessionID,
		snap.TeamID,
		snap.Round,
	)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetSnapshot returns one team's snapshot for a round.
func (s *Store) GetSnapshot(ctx context.Context, sessionID, teamID string, round int) (indicator.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return indicator.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return indicator.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	teamID = strings.TrimSpace(teamID)
	if sessionID == "" {
		return indicator.Snapshot{}, fmt.Errorf("session id is required")
	}
	if teamID == "" {
		return indicator.Snapshot{}, fmt.Errorf("team id is required")
	}
	if round < 1 {
		return indicator.Snapshot{}, fmt.Errorf("round must be greater than zero")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+snapshotColumns+`
		   FROM snapshots
		  WHERE session_id = ? AND team_id = ? AND round = ?`,
		sessionID,
		teamID,
		round,
	)
	snap, err := scanSnapshot(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return indicator.Snapshot{}, storage.ErrNotFound
		}
		return indicator.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns every team snapshot for a round ordered by team id.
func (s *Store) ListSnapshots(ctx context.Context, sessionID string, round int) ([]indicator.Snapshot, error) {
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
	if round < 1 {
		return nil, fmt.Errorf("round must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+snapshotColumns+`
		   FROM snapshots
		  WHERE session_id = ? AND round = ?
		  ORDER BY team_id ASC`,
		sessionID,
		round,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []indicator.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// BulkUpsertSnapshots writes a batch of snapshots in one transaction,
// inserting new (session, team, round) keys and rewriting existing ones.
func (s *Store) BulkUpsertSnapshots(ctx context.Context, snaps []indicator.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(snaps) == 0 {
		return nil
	}
	normalized := make([]indicator.Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		valid, err := validateSnapshotKey(snap)
		if err != nil {
			return err
		}
		normalized = append(normalized, valid)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot batch write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback snapshot batch write: %v", cause, rollbackErr)
		}
		return cause
	}

	for _, snap := range normalized {
		createdAt, updatedAt := snapshotTimestamps(snap)
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO snapshots (`+snapshotColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(session_id, team_id, round) DO UPDATE SET
			   start_capacity = excluded.start_capacity,
			   start_orders = excluded.start_orders,
			   start_cost = excluded.start_cost,
			   start_unit_price = excluded.start_unit_price,
			   current_capacity = excluded.current_capacity,
			   current_orders = excluded.current_orders,
			   current_cost = excluded.current_cost,
			   current_unit_price = excluded.current_unit_price,
			   revenue = excluded.revenue,
			   net_income = excluded.net_income,
			   net_margin = excluded.net_margin,
			   updated_at = excluded.updated_at`,
			snap.SessionID,
			snap.TeamID,
			snap.Round,
			snap.StartCapacity,
			snap.StartOrders,
			snap.StartCost,
			snap.StartUnitPrice,
			snap.CurrentCapacity,
			snap.CurrentOrders,
			snap.CurrentCost,
			snap.CurrentUnitPrice,
			snap.Revenue,
			snap.NetIncome,
			snap.NetMargin,
			toMillis(createdAt),
			toMillis(updatedAt),
		)
		if err != nil {
			return rollbackWith(fmt.Errorf("upsert snapshot: %w", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot batch write: %w", err)
	}
	return nil
}

func scanSnapshot(scan func(dest ...any) error) (indicator.Snapshot, error) {
	var snap indicator.Snapshot
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&snap.SessionID,
		&snap.TeamID,
		&snap.Round,
		&snap.StartCapacity,
		&snap.StartOrders,
		&snap.StartCost,
		&snap.StartUnitPrice,
		&snap.CurrentCapacity,
		&snap.CurrentOrders,
		&snap.CurrentCost,
		&snap.CurrentUnitPrice,
		&snap.Revenue,
		&snap.NetIncome,
		&snap.NetMargin,
		&createdAt,
		&updatedAt,
	); err != nil {
		return indicator.Snapshot{}, err
	}
	snap.CreatedAt = fromMillis(createdAt)
	snap.UpdatedAt = fromMillis(updatedAt)
	return snap, nil
}

var _ storage.SnapshotStore = (*Store)(nil)
