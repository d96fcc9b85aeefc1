// Package engine turns reveal triggers into scored effect applications.
//
// One engine serves one session. A trigger resolves to its pack binding,
// the binding's family decides which teams qualify against their recorded
// decisions, and the bound effect set lands on each qualifying team's round
// snapshot. A durable application ledger keyed by (team, rule, option)
// keeps repeated invocations of the same reveal from applying twice.
package engine

import (
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/crucible-games/boardroom/internal/broadcast"
	"github.com/crucible-games/boardroom/internal/content"
	"github.com/crucible-games/boardroom/internal/rounds"
	"github.com/crucible-games/boardroom/internal/storage"
	"github.com/crucible-games/boardroom/internal/telemetry"
)

// ErrBusy indicates a trigger arrived while another was in flight. The
// trigger is dropped, not queued; the caller re-issues it.
var ErrBusy = errors.New("another trigger is in flight")

// Store is the persistence surface the engine works against. Decisions and
// teams are read-only here; writes belong to the collection layer.
type Store interface {
	storage.SnapshotStore
	storage.AdjustmentStore
	storage.LedgerStore
	storage.DecisionReader
	storage.TeamReader
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithBroadcaster sets the collaborator notified after each application.
func WithBroadcaster(b broadcast.Broadcaster) Option {
	return func(e *Engine) { e.broadcaster = b }
}

// WithTelemetry attaches an audit emitter for trigger and reset events.
func WithTelemetry(emitter *telemetry.Emitter) Option {
	return func(e *Engine) { e.telemetry = emitter }
}

// Engine processes reveal triggers for one session.
type Engine struct {
	sessionID   string
	pack        content.Pack
	store       Store
	sequencer   *rounds.Sequencer
	broadcaster broadcast.Broadcaster
	telemetry   *telemetry.Emitter
	tracer      trace.Tracer
	clock       func() time.Time

	// mu serializes trigger processing. applied caches ledger hits for the
	// session and is only touched while mu is held.
	mu      sync.Mutex
	applied map[string]struct{}
}

// New creates an engine for one session over the given content pack.
func New(sessionID string, pack content.Pack, store Store, opts ...Option) *Engine {
	e := &Engine{
		sessionID:   sessionID,
		pack:        pack,
		store:       store,
		broadcaster: broadcast.LogBroadcaster{},
		tracer:      otel.Tracer("boardroom.engine"),
		clock:       time.Now,
		applied:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	seqOpts := []rounds.Option{rounds.WithClock(e.clock)}
	if e.telemetry != nil {
		seqOpts = append(seqOpts, rounds.WithTelemetry(e.telemetry))
	}
	e.sequencer = rounds.NewSequencer(sessionID, pack, store, store, seqOpts...)
	return e
}

func appliedKey(teamID, ruleID, optionID string) string {
	return teamID + ":" + ruleID + ":" + optionID
}
