// Package broadcast carries post-trigger updates to whatever surface hosts
// the session. The engine fires and forgets; implementations own their own
// delivery guarantees and never feed errors back into scoring.
package broadcast

import (
	"context"
	"log"

	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/storage"
)

// Update summarizes one committed trigger: the snapshots it changed and the
// permanent adjustments it earned.
type Update struct {
	SessionID   string
	TriggerID   string
	Round       int
	Snapshots   []indicator.Snapshot
	Adjustments []storage.Adjustment
}

// Broadcaster delivers updates to session watchers.
type Broadcaster interface {
	Broadcast(ctx context.Context, update Update)
}

// LogBroadcaster writes update summaries to the process log. It is the
// default sink when no realtime surface is wired in.
type LogBroadcaster struct {
	Logger *log.Logger
}

// Broadcast logs a one-line update summary.
func (b LogBroadcaster) Broadcast(_ context.Context, update Update) {
	logger := b.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("broadcast session=%s trigger=%s round=%d snapshots=%d adjustments=%d",
		update.SessionID, update.TriggerID, update.Round, len(update.Snapshots), len(update.Adjustments))
}

var _ Broadcaster = LogBroadcaster{}
