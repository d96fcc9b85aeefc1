package engine

import (
	"github.com/crucible-games/boardroom/internal/content"
	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/storage"
)

// Code classifies how a trigger resolution ended.
type Code string

const (
	// CodeApplied means at least one team received the effect set.
	CodeApplied Code = "applied"
	// CodeNoop means the trigger resolved but no team qualified.
	CodeNoop Code = "noop"
	// CodeReset means a round boundary was processed.
	CodeReset Code = "reset"
	// CodeUnmapped means the pack defines no binding for the trigger id.
	CodeUnmapped Code = "unmapped"
)

// Skip reasons reported per team in trigger outcomes.
const (
	SkipAlreadyApplied     = "already-applied"
	SkipNoDecision         = "no-decision"
	SkipSelectionMismatch  = "selection-mismatch"
	SkipInvalidCombination = "invalid-combination"
	SkipImmune             = "immune"
	SkipNotHeld            = "not-held"
	SkipNoEffectSet        = "no-effect-set"
	SkipInvalidEffect      = "invalid-effect"
)

// Skip explains why one team was left out of a trigger application.
type Skip struct {
	TeamID string
	Reason string
}

// TeamApplication records one team's processed result: the option or
// selection key that matched and the snapshot after the write. Round
// resets report every team's fresh snapshot with an empty option id.
type TeamApplication struct {
	TeamID   string
	OptionID string
	Snapshot indicator.Snapshot
}

// Outcome reports what one trigger did. Unmapped triggers and triggers
// where no team qualifies are outcomes, not errors; only persistence
// failures surface as errors.
type Outcome struct {
	TriggerID   string
	RuleID      string
	Family      content.Family
	Round       int
	Code        Code
	Applied     []TeamApplication
	Skipped     []Skip
	Adjustments []storage.Adjustment
}
