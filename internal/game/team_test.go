package game

import (
	"errors"
	"testing"
	"time"
)

func TestCreateTeamNormalizesInput(t *testing.T) {
	fixedTime := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	input := CreateTeamInput{
		SessionID: "sess-1",
		Name:      "  Atlas Manufacturing  ",
	}

	team, err := CreateTeam(input, func() time.Time { return fixedTime }, func() (string, error) {
		return "team-1", nil
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	if team.ID != "team-1" {
		t.Fatalf("expected id team-1, got %q", team.ID)
	}
	if team.SessionID != "sess-1" {
		t.Fatalf("expected session id sess-1, got %q", team.SessionID)
	}
	if team.Name != "Atlas Manufacturing" {
		t.Fatalf("expected trimmed name, got %q", team.Name)
	}
	if !team.CreatedAt.Equal(fixedTime) {
		t.Fatalf("expected creation time to match fixed time")
	}
}

func TestNormalizeCreateTeamInputValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateTeamInput
		err   error
	}{
		{
			name:  "empty session id",
			input: CreateTeamInput{SessionID: "   ", Name: "Atlas"},
			err:   ErrEmptySessionID,
		},
		{
			name:  "empty name",
			input: CreateTeamInput{SessionID: "sess-1", Name: "   "},
			err:   ErrEmptyTeamName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCreateTeamInput(tt.input)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
		})
	}
}
