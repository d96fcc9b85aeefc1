package game

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyTeamID indicates a missing team identifier.
	ErrEmptyTeamID = errors.New("team id is required")
	// ErrEmptyPhaseID indicates a missing phase identifier.
	ErrEmptyPhaseID = errors.New("phase id is required")
)

// Decision records the options a team locked in during one decision phase.
// A team has at most one decision per phase; later submissions for the same
// phase replace the earlier one in storage.
type Decision struct {
	SessionID string
	TeamID    string
	PhaseID   string
	// OptionIDs lists the selected options in submission order. A decision
	// with no options is a deliberate pass.
	OptionIDs []string
	// Spend is the budget committed in this phase, in whole currency units.
	Spend int64
	// SacrificedOptionID names an option from an earlier phase the team gave
	// up as part of an exchange. Empty for ordinary decisions.
	SacrificedOptionID string
	RecordedAt         time.Time
}

// NewDecision normalizes and validates a decision and stamps its record time.
func NewDecision(d Decision, now func() time.Time) (Decision, error) {
	if now == nil {
		now = time.Now
	}
	normalized, err := NormalizeDecision(d)
	if err != nil {
		return Decision{}, err
	}
	normalized.RecordedAt = now().UTC()
	return normalized, nil
}

// NormalizeDecision trims identifiers and drops duplicate or empty option
// ids, preserving submission order.
func NormalizeDecision(d Decision) (Decision, error) {
	d.SessionID = strings.TrimSpace(d.SessionID)
	if d.SessionID == "" {
		return Decision{}, ErrEmptySessionID
	}
	d.TeamID = strings.TrimSpace(d.TeamID)
	if d.TeamID == "" {
		return Decision{}, ErrEmptyTeamID
	}
	d.PhaseID = strings.TrimSpace(d.PhaseID)
	if d.PhaseID == "" {
		return Decision{}, ErrEmptyPhaseID
	}

	seen := make(map[string]struct{}, len(d.OptionIDs))
	options := make([]string, 0, len(d.OptionIDs))
	for _, id := range d.OptionIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		options = append(options, id)
	}
	d.OptionIDs = options
	d.SacrificedOptionID = strings.TrimSpace(d.SacrificedOptionID)
	return d, nil
}
