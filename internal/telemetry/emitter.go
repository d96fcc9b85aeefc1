// Package telemetry appends durable operational events for post-session
// audits.
package telemetry

import (
	"context"
	"time"

	"github.com/crucible-games/boardroom/internal/storage"
	"go.opentelemetry.io/otel/trace"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event is one operational occurrence worth keeping for the audit trail:
// a trigger resolved, a team skipped, a round reset.
type Event struct {
	Name       string
	Severity   Severity
	TeamID     string
	TriggerID  string
	RuleID     string
	Attributes map[string]any
}

// Emitter records telemetry events for one session. A nil emitter or a
// missing store drops events silently; observability never gates game flow.
type Emitter struct {
	sessionID string
	store     storage.TelemetryStore
	clock     func() time.Time
}

// NewEmitter creates an emitter scoped to one session.
func NewEmitter(sessionID string, store storage.TelemetryStore) *Emitter {
	return &Emitter{sessionID: sessionID, store: store, clock: time.Now}
}

// Emit appends one event, stamping the session scope, the clock, and the
// ids of whatever trace span is active on the context. Severity defaults
// to INFO.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if e == nil || e.store == nil {
		return nil
	}
	severity := evt.Severity
	if severity == "" {
		severity = SeverityInfo
	}
	record := storage.TelemetryEvent{
		Timestamp:  e.now(),
		EventName:  evt.Name,
		Severity:   string(severity),
		SessionID:  e.sessionID,
		TeamID:     evt.TeamID,
		TriggerID:  evt.TriggerID,
		RuleID:     evt.RuleID,
		Attributes: evt.Attributes,
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		record.TraceID = sc.TraceID().String()
		record.SpanID = sc.SpanID().String()
	}
	return e.store.AppendTelemetryEvent(ctx, record)
}

func (e *Emitter) now() time.Time {
	if e.clock == nil {
		return time.Now().UTC()
	}
	return e.clock().UTC()
}
