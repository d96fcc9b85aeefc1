package storage

import (
	"context"
	"errors"
	"time"

	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/indicator"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// Adjustment is a persisted permanent effect: it seeds one indicator's start
// value when the named round begins. Multiple adjustments for the same team
// and round accumulate additively, applied in Seq order.
type Adjustment struct {
	// Seq orders adjustments across the session. Assigned by the store.
	Seq       int64
	SessionID string
	TeamID    string
	// Round is the target round start the adjustment seeds.
	Round     int
	Indicator string
	Value     float64
	Percent   bool
	// Source labels the rule and option that granted the adjustment.
	// Replays of the same source update in place instead of duplicating.
	Source string
	// Note carries the granting effect's audit text.
	Note      string
	CreatedAt time.Time
}

// ApplicationRecord marks one rule/option as committed for a team. Its
// presence means the associated effects are already in the indicator store;
// the engine checks it before computing anything.
type ApplicationRecord struct {
	SessionID string
	TeamID    string
	RuleID    string
	OptionID  string
	// TriggerID records which reveal committed the application. Audit only:
	// uniqueness is (session, team, rule, option), which is what keeps a
	// second reveal slide for the same rule from re-applying effects.
	TriggerID string
	AppliedAt time.Time
}

// TelemetryEvent is one operational audit record emitted while processing
// reveals and round resets.
type TelemetryEvent struct {
	Timestamp      time.Time
	EventName      string
	Severity       string
	SessionID      string
	TeamID         string
	TriggerID      string
	RuleID         string
	TraceID        string
	SpanID         string
	Attributes     map[string]any
	AttributesJSON []byte
}

// TeamReader lists the teams competing in a session.
type TeamReader interface {
	ListTeams(ctx context.Context, sessionID string) ([]game.Team, error)
}

// TeamStore persists team records.
type TeamStore interface {
	TeamReader
	PutTeam(ctx context.Context, team game.Team) error
}

// DecisionReader exposes recorded decisions. The scoring engine only ever
// reads decisions; writes belong to the collection layer.
type DecisionReader interface {
	ListDecisions(ctx context.Context, sessionID string) ([]game.Decision, error)
	// GetDecision returns ErrNotFound when the team has no decision for the
	// phase.
	GetDecision(ctx context.Context, sessionID, teamID, phaseID string) (game.Decision, error)
}

// DecisionStore persists decision records.
type DecisionStore interface {
	DecisionReader
	// PutDecision upserts by (session, team, phase): a later submission for
	// the same phase replaces the earlier one.
	PutDecision(ctx context.Context, decision game.Decision) error
}

// SnapshotStore persists per-team-per-round indicator snapshots.
type SnapshotStore interface {
	// GetSnapshot returns ErrNotFound when the (team, round) pair has no
	// snapshot yet.
	GetSnapshot(ctx context.Context, sessionID, teamID string, round int) (indicator.Snapshot, error)
	// CreateSnapshot inserts a new snapshot and returns ErrAlreadyExists
	// when another caller created the same (team, round) pair first.
	CreateSnapshot(ctx context.Context, snap indicator.Snapshot) error
	UpdateSnapshot(ctx context.Context, snap indicator.Snapshot) error
	// BulkUpsertSnapshots writes a batch in one transaction, inserting or
	// updating each snapshot by its (session, team, round) key.
	BulkUpsertSnapshots(ctx context.Context, snaps []indicator.Snapshot) error
	ListSnapshots(ctx context.Context, sessionID string, round int) ([]indicator.Snapshot, error)
}

// AdjustmentStore persists the permanent-adjustment ledger.
type AdjustmentStore interface {
	// ListAdjustments returns the session's adjustments in Seq order.
	ListAdjustments(ctx context.Context, sessionID string) ([]Adjustment, error)
	// UpsertAdjustments inserts a batch in recorded order. A replayed
	// (session, team, round, indicator, source) key updates the existing
	// row, keeping its original Seq.
	UpsertAdjustments(ctx context.Context, adjustments []Adjustment) error
}

// LedgerStore persists application records for idempotency checks.
type LedgerStore interface {
	HasBeenApplied(ctx context.Context, sessionID, teamID, ruleID, optionID string) (bool, error)
	// RecordApplications inserts a batch in one transaction. Records that
	// already exist are kept, not duplicated.
	RecordApplications(ctx context.Context, records []ApplicationRecord) error
}

// TelemetryStore persists operational telemetry records for audits.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// Store is the full persistence surface one session runs against.
type Store interface {
	TeamStore
	DecisionStore
	SnapshotStore
	AdjustmentStore
	LedgerStore
	TelemetryStore
	Close() error
}
