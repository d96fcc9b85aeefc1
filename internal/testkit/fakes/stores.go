// Package fakes provides lightweight in-memory storage fakes for tests.
package fakes

import (
	"context"
	"sort"
	"strconv"

	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/storage"
)

// Store is an in-memory storage.Store fake. Its write semantics mirror the
// sqlite store: snapshot creates conflict on duplicates, adjustment replays
// keep their original seq, application records keep the first writer.
type Store struct {
	Teams        map[string]game.Team
	Decisions    map[string]game.Decision
	Snapshots    map[string]indicator.Snapshot
	Adjustments  []storage.Adjustment
	Applications map[string]storage.ApplicationRecord
	Telemetry    []storage.TelemetryEvent

	nextSeq int64
}

// NewStore constructs a Store fake with initialized state maps.
func NewStore() *Store {
	return &Store{
		Teams:        make(map[string]game.Team),
		Decisions:    make(map[string]game.Decision),
		Snapshots:    make(map[string]indicator.Snapshot),
		Applications: make(map[string]storage.ApplicationRecord),
	}
}

func snapshotKey(sessionID, teamID string, round int) string {
	return sessionID + ":" + teamID + ":" + strconv.Itoa(round)
}

func decisionKey(sessionID, teamID, phaseID string) string {
	return sessionID + ":" + teamID + ":" + phaseID
}

func applicationKey(sessionID, teamID, ruleID, optionID string) string {
	return sessionID + ":" + teamID + ":" + ruleID + ":" + optionID
}

func (s *Store) PutTeam(_ context.Context, team game.Team) error {
	s.Teams[team.ID] = team
	return nil
}

func (s *Store) ListTeams(_ context.Context, sessionID string) ([]game.Team, error) {
	var teams []game.Team
	for _, team := range s.Teams {
		if team.SessionID == sessionID {
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if !teams[i].CreatedAt.Equal(teams[j].CreatedAt) {
			return teams[i].CreatedAt.Before(teams[j].CreatedAt)
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}

func (s *Store) PutDecision(_ context.Context, decision game.Decision) error {
	s.Decisions[decisionKey(decision.SessionID, decision.TeamID, decision.PhaseID)] = decision
	return nil
}

func (s *Store) GetDecision(_ context.Context, sessionID, teamID, phaseID string) (game.Decision, error) {
	decision, ok := s.Decisions[decisionKey(sessionID, teamID, phaseID)]
	if !ok {
		return game.Decision{}, storage.ErrNotFound
	}
	return decision, nil
}

func (s *Store) ListDecisions(_ context.Context, sessionID string) ([]game.Decision, error) {
	var decisions []game.Decision
	for _, decision := range s.Decisions {
		if decision.SessionID == sessionID {
			decisions = append(decisions, decision)
		}
	}
	sort.Slice(decisions, func(i, j int) bool {
		if !decisions[i].RecordedAt.Equal(decisions[j].RecordedAt) {
			return decisions[i].RecordedAt.Before(decisions[j].RecordedAt)
		}
		if decisions[i].TeamID != decisions[j].TeamID {
			return decisions[i].TeamID < decisions[j].TeamID
		}
		return decisions[i].PhaseID < decisions[j].PhaseID
	})
	return decisions, nil
}

func (s *Store) GetSnapshot(_ context.Context, sessionID, teamID string, round int) (indicator.Snapshot, error) {
	snap, ok := s.Snapshots[snapshotKey(sessionID, teamID, round)]
	if !ok {
		return indicator.Snapshot{}, storage.ErrNotFound
	}
	return snap, nil
}

func (s *Store) CreateSnapshot(_ context.Context, snap indicator.Snapshot) error {
	key := snapshotKey(snap.SessionID, snap.TeamID, snap.Round)
	if _, ok := s.Snapshots[key]; ok {
		return storage.ErrAlreadyExists
	}
	s.Snapshots[key] = snap
	return nil
}

func (s *Store) UpdateSnapshot(_ context.Context, snap indicator.Snapshot) error {
	key := snapshotKey(snap.SessionID, snap.TeamID, snap.Round)
	if _, ok := s.Snapshots[key]; !ok {
		return storage.ErrNotFound
	}
	s.Snapshots[key] = snap
	return nil
}

func (s *Store) BulkUpsertSnapshots(_ context.Context, snaps []indicator.Snapshot) error {
	for _, snap := range snaps {
		s.Snapshots[snapshotKey(snap.SessionID, snap.TeamID, snap.Round)] = snap
	}
	return nil
}

func (s *Store) ListSnapshots(_ context.Context, sessionID string, round int) ([]indicator.Snapshot, error) {
	var snaps []indicator.Snapshot
	for _, snap := range s.Snapshots {
		if snap.SessionID == sessionID && snap.Round == round {
			snaps = append(snaps, snap)
		}
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].TeamID < snaps[j].TeamID })
	return snaps, nil
}

func (s *Store) UpsertAdjustments(_ context.Context, adjustments []storage.Adjustment) error {
	for _, adj := range adjustments {
		replaced := false
		for i, existing := range s.Adjustments {
			if existing.SessionID == adj.SessionID && existing.TeamID == adj.TeamID &&
				existing.Round == adj.Round && existing.Indicator == adj.Indicator &&
				existing.Source == adj.Source {
				adj.Seq = existing.Seq
				adj.CreatedAt = existing.CreatedAt
				s.Adjustments[i] = adj
				replaced = true
				break
			}
		}
		if replaced {
			continue
		}
		s.nextSeq++
		adj.Seq = s.nextSeq
		s.Adjustments = append(s.Adjustments, adj)
	}
	return nil
}

func (s *Store) ListAdjustments(_ context.Context, sessionID string) ([]storage.Adjustment, error) {
	var adjustments []storage.Adjustment
	for _, adj := range s.Adjustments {
		if adj.SessionID == sessionID {
			adjustments = append(adjustments, adj)
		}
	}
	sort.Slice(adjustments, func(i, j int) bool { return adjustments[i].Seq < adjustments[j].Seq })
	return adjustments, nil
}

func (s *Store) HasBeenApplied(_ context.Context, sessionID, teamID, ruleID, optionID string) (bool, error) {
	_, ok := s.Applications[applicationKey(sessionID, teamID, ruleID, optionID)]
	return ok, nil
}

func (s *Store) RecordApplications(_ context.Context, records []storage.ApplicationRecord) error {
	for _, record := range records {
		key := applicationKey(record.SessionID, record.TeamID, record.RuleID, record.OptionID)
		if _, ok := s.Applications[key]; ok {
			continue
		}
		s.Applications[key] = record
	}
	return nil
}

func (s *Store) AppendTelemetryEvent(_ context.Context, evt storage.TelemetryEvent) error {
	s.Telemetry = append(s.Telemetry, evt)
	return nil
}

func (s *Store) Close() error { return nil }

var _ storage.Store = (*Store)(nil)
