package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/storage"
)

func encodeOptionIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode option ids: %w", err)
	}
	return string(raw), nil
}

func decodeOptionIDs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode option ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// PutDecision upserts one decision keyed by (session, team, phase). A later
// submission for the same phase replaces the earlier one.
func (s *Store) PutDecision(ctx context.Context, decision game.Decision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := game.NormalizeDecision(decision)
	if err != nil {
		return err
	}
	recordedAt := normalized.RecordedAt.UTC()
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	optionsJSON, err := encodeOptionIDs(normalized.OptionIDs)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO decisions (
		   session_id, team_id, phase_id, options_json, spend,
		   sacrificed_option_id, recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id, team_id, phase_id) DO UPDATE SET
		   options_json = excluded.options_json,
		   spend = excluded.spend,
		   sacrificed_option_id = excluded.sacrificed_option_id,
		   recorded_at = excluded.recorded_at`,
		normalized.SessionID,
		normalized.TeamID,
		normalized.PhaseID,
		optionsJSON,
		normalized.Spend,
		normalized.SacrificedOptionID,
		toMillis(recordedAt),
	)
	if err != nil {
		return fmt.Errorf("put decision: %w", err)
	}
	return nil
}

// GetDecision returns one team's decision for a phase.
func (s *Store) GetDecision(ctx context.Context, sessionID, teamID, phaseID string) (game.Decision, error) {
	if err := ctx.Err(); err != nil {
		return game.Decision{}, err
	}
	if s == nil || s.sqlDB == nil {
		return game.Decision{}, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	teamID = strings.TrimSpace(teamID)
	phaseID = strings.TrimSpace(phaseID)
	if sessionID == "" {
		return game.Decision{}, fmt.Errorf("session id is required")
	}
	if teamID == "" {
		return game.Decision{}, fmt.Errorf("team id is required")
	}
	if phaseID == "" {
		return game.Decision{}, fmt.Errorf("phase id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT session_id, team_id, phase_id, options_json, spend,
		        sacrificed_option_id, recorded_at
		   FROM decisions
		  WHERE session_id = ? AND team_id = ? AND phase_id = ?`,
		sessionID,
		teamID,
		phaseID,
	)
	decision, err := scanDecision(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.Decision{}, storage.ErrNotFound
		}
		return game.Decision{}, fmt.Errorf("get decision: %w", err)
	}
	return decision, nil
}

// ListDecisions returns every decision in a session ordered by record time.
func (s *Store) ListDecisions(ctx context.Context, sessionID string) ([]game.Decision, error) {
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
		`SELECT session_id, team_id, phase_id, options_json, spend,
		        sacrificed_option_id, recorded_at
		   FROM decisions
		  WHERE session_id = ?
		  ORDER BY recorded_at ASC, team_id ASC, phase_id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []game.Decision
	for rows.Next() {
		decision, err := scanDecision(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list decisions: %w", err)
		}
		decisions = append(decisions, decision)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	return decisions, nil
}

func scanDecision(scan func(dest ...any) error) (game.Decision, error) {
	var decision game.Decision
	var optionsJSON string
	var recordedAt int64
	if err := scan(
		&decision.SessionID,
		&decision.TeamID,
		&decision.PhaseID,
		&optionsJSON,
		&decision.Spend,
		&decision.SacrificedOptionID,
		&recordedAt,
	); err != nil {
		return game.Decision{}, err
	}
	options, err := decodeOptionIDs(optionsJSON)
	if err != nil {
		return game.Decision{}, err
	}
	decision.OptionIDs = options
	decision.RecordedAt = fromMillis(recordedAt)
	return decision, nil
}

var _ storage.DecisionStore = (*Store)(nil)
