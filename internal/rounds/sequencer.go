// Package rounds builds round-start snapshots: a hard baseline reset from
// the content pack, earned permanent adjustments folded in, financials
// derived. Nothing else ever writes Start values.
package rounds

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/crucible-games/boardroom/internal/content"
	"github.com/crucible-games/boardroom/internal/finance"
	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/storage"
	"github.com/crucible-games/boardroom/internal/telemetry"
)

// ErrNoBaseline indicates the content pack fixes no start values for the
// requested round.
var ErrNoBaseline = errors.New("no baseline for round")

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock sets the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Sequencer) { s.clock = clock }
}

// WithTelemetry attaches an audit emitter for reset events.
func WithTelemetry(emitter *telemetry.Emitter) Option {
	return func(s *Sequencer) { s.telemetry = emitter }
}

// Sequencer builds and persists round snapshots for one session.
type Sequencer struct {
	sessionID   string
	pack        content.Pack
	snapshots   storage.SnapshotStore
	adjustments storage.AdjustmentStore
	telemetry   *telemetry.Emitter
	clock       func() time.Time
}

// NewSequencer creates a sequencer for one session.
func NewSequencer(sessionID string, pack content.Pack, snapshots storage.SnapshotStore, adjustments storage.AdjustmentStore, opts ...Option) *Sequencer {
	s := &Sequencer{
		sessionID:   sessionID,
		pack:        pack,
		snapshots:   snapshots,
		adjustments: adjustments,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartRound returns the team's snapshot for the round, building and
// persisting it on first reference. When a concurrent caller creates the
// same snapshot first, the winner's record is re-read and returned.
func (s *Sequencer) StartRound(ctx context.Context, teamID string, round int) (indicator.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return indicator.Snapshot{}, err
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return indicator.Snapshot{}, fmt.Errorf("team id is required")
	}

	snap, err := s.snapshots.GetSnapshot(ctx, s.sessionID, teamID, round)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return indicator.Snapshot{}, fmt.Errorf("get round %d snapshot: %w", round, err)
	}

	adjustments, err := s.adjustments.ListAdjustments(ctx, s.sessionID)
	if err != nil {
		return indicator.Snapshot{}, fmt.Errorf("list adjustments: %w", err)
	}
	snap, err = s.build(teamID, round, adjustments)
	if err != nil {
		return indicator.Snapshot{}, err
	}

	if err := s.snapshots.CreateSnapshot(ctx, snap); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return s.snapshots.GetSnapshot(ctx, s.sessionID, teamID, round)
		}
		return indicator.Snapshot{}, fmt.Errorf("create round %d snapshot: %w", round, err)
	}
	s.emitReset(ctx, round, []string{teamID})
	return snap, nil
}

// StartRoundForTeams resets a round for every team in one pass. Teams that
// already have a snapshot for the round keep it untouched; the rest are
// built in memory and written in one batch. Returns every team's snapshot.
func (s *Sequencer) StartRoundForTeams(ctx context.Context, teams []game.Team, round int) ([]indicator.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, nil
	}

	existing, err := s.snapshots.ListSnapshots(ctx, s.sessionID, round)
	if err != nil {
		return nil, fmt.Errorf("list round %d snapshots: %w", round, err)
	}
	have := make(map[string]indicator.Snapshot, len(existing))
	for _, snap := range existing {
		have[snap.TeamID] = snap
	}

	adjustments, err := s.adjustments.ListAdjustments(ctx, s.sessionID)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}

	out := make([]indicator.Snapshot, 0, len(teams))
	var fresh []indicator.Snapshot
	var resetTeams []string
	for _, team := range teams {
		if snap, ok := have[team.ID]; ok {
			out = append(out, snap)
			continue
		}
		snap, err := s.build(team.ID, round, adjustments)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, snap)
		resetTeams = append(resetTeams, team.ID)
		out = append(out, snap)
	}

	if len(fresh) > 0 {
		if err := s.snapshots.BulkUpsertSnapshots(ctx, fresh); err != nil {
			return nil, fmt.Errorf("write round %d snapshots: %w", round, err)
		}
		s.emitReset(ctx, round, resetTeams)
	}
	return out, nil
}

// build assembles one team's round snapshot in the fixed order: pack
// baseline, then permanent adjustments in seq order against the start
// values, then currents reset to starts, then financials.
func (s *Sequencer) build(teamID string, round int, adjustments []storage.Adjustment) (indicator.Snapshot, error) {
	baseline, ok := s.pack.BaselineFor(round)
	if !ok {
		return indicator.Snapshot{}, fmt.Errorf("%w: %d", ErrNoBaseline, round)
	}
	now := s.clock().UTC()
	snap := indicator.Snapshot{
		SessionID:      s.sessionID,
		TeamID:         teamID,
		Round:          round,
		StartCapacity:  baseline.Capacity,
		StartOrders:    baseline.Orders,
		StartCost:      baseline.Cost,
		StartUnitPrice: baseline.UnitPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, adj := range adjustments {
		if adj.TeamID != teamID || adj.Round != round {
			continue
		}
		if err := snap.ApplyToStart(adj.Indicator, adj.Value, adj.Percent); err != nil {
			return indicator.Snapshot{}, fmt.Errorf("apply adjustment %d: %w", adj.Seq, err)
		}
	}
	snap.ResetCurrents()
	finance.Refresh(&snap, s.pack.RateTable, s.pack.MaterialUnitCost)
	return snap, nil
}

func (s *Sequencer) emitReset(ctx context.Context, round int, teams []string) {
	if s.telemetry == nil {
		return
	}
	err := s.telemetry.Emit(ctx, telemetry.Event{
		Name: "round.reset",
		Attributes: map[string]any{
			"round": round,
			"teams": len(teams),
		},
	})
	if err != nil {
		log.Printf("telemetry emit round.reset: %v", err)
	}
}
