package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptySessionID indicates a missing session identifier.
	ErrEmptySessionID = errors.New("session id is required")
	// ErrEmptyTeamName indicates a missing team name.
	ErrEmptyTeamName = errors.New("team name is required")
)

// Team represents one competing table in a session.
type Team struct {
	ID        string
	SessionID string
	Name      string
	CreatedAt time.Time
}

// CreateTeamInput describes the metadata needed to create a team.
type CreateTeamInput struct {
	SessionID string
	Name      string
}

// CreateTeam creates a new team with a generated ID and creation timestamp.
func CreateTeam(input CreateTeamInput, now func() time.Time, idGenerator func() (string, error)) (Team, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateTeamInput(input)
	if err != nil {
		return Team{}, err
	}

	teamID, err := idGenerator()
	if err != nil {
		return Team{}, fmt.Errorf("generate team id: %w", err)
	}

	return Team{
		ID:        teamID,
		SessionID: normalized.SessionID,
		Name:      normalized.Name,
		CreatedAt: now().UTC(),
	}, nil
}

// NormalizeCreateTeamInput trims and validates team input metadata.
func NormalizeCreateTeamInput(input CreateTeamInput) (CreateTeamInput, error) {
	input.SessionID = strings.TrimSpace(input.SessionID)
	if input.SessionID == "" {
		return CreateTeamInput{}, ErrEmptySessionID
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateTeamInput{}, ErrEmptyTeamName
	}
	return input, nil
}
