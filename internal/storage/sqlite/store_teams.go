package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/storage"
)

// PutTeam upserts one team record keyed by team id.
func (s *Store) PutTeam(ctx context.Context, team game.Team) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	teamID := strings.TrimSpace(team.ID)
	sessionID := strings.TrimSpace(team.SessionID)
	name := strings.TrimSpace(team.Name)
	if teamID == "" {
		return fmt.Errorf("team id is required")
	}
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if name == "" {
		return fmt.Errorf("team name is required")
	}
	createdAt := team.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO teams (id, session_id, name, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   session_id = excluded.session_id,
		   name = excluded.name`,
		teamID,
		sessionID,
		name,
		toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("put team: %w", err)
	}
	return nil
}

// ListTeams returns a session's teams ordered by creation time.
func (s *Store) ListTeams(ctx context.Context, sessionID string) ([]game.Team, error) {
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
		`SELECT id, session_id, name, created_at
		   FROM teams
		  WHERE session_id = ?
		  ORDER BY created_at ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []game.Team
	for rows.Next() {
		var team game.Team
		var createdAt int64
		if err := rows.Scan(&team.ID, &team.SessionID, &team.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		team.CreatedAt = fromMillis(createdAt)
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

var _ storage.TeamStore = (*Store)(nil)
