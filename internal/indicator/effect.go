package indicator

import (
	"errors"
	"fmt"
)

// Timing separates effects that move a round's current values from effects
// that seed future round baselines.
type Timing string

const (
	// TimingImmediate applies to the current values of the active round.
	TimingImmediate Timing = "immediate"
	// TimingPermanent is recorded as an adjustment and folded into the
	// start values of the rounds it names.
	TimingPermanent Timing = "permanent"
)

// ErrUnknownTiming indicates an effect timing outside the known set.
var ErrUnknownTiming = errors.New("unknown effect timing")

// Effect is a single signed change to one indicator.
type Effect struct {
	Indicator string
	// Value is the delta. When Percent is set it is read as a percentage
	// of the target indicator's running value instead of a fixed amount.
	Value   float64
	Percent bool
	Timing  Timing
	// Rounds lists the round starts a permanent effect seeds. Ignored for
	// immediate effects.
	Rounds []int
	// Note is free-form audit text carried through to adjustments.
	Note string
}

// Apply applies a batch of effects to a snapshot and returns the updated
// copy. The input snapshot is not modified.
//
// # Ordering
//
// Effects are processed strictly in slice order. Each effect, fixed or
// percentage, reads the running current value of its target indicator at
// the moment it is processed, so a percentage effect placed after a fixed
// one sees the fixed one's result. Reordering a batch with percentage
// effects changes the outcome; content packs own the order.
//
// # Timing
//
// Only immediate effects change the snapshot. Permanent effects are
// skipped: the engine converts them to durable adjustments, and the round
// reset sequencer folds those into future baselines. An effect is never
// both applied here and recorded as an adjustment.
//
// # Errors
//
//   - An effect naming an unknown indicator returns ErrUnknownIndicator.
//   - An effect with an unknown timing returns ErrUnknownTiming.
//
// On error the original snapshot is returned unchanged.
//
// Example:
//
//	snap.CurrentCapacity = 5000
//	updated, err := Apply(snap, []Effect{
//	    {Indicator: Capacity, Value: 1000, Timing: TimingImmediate},
//	    {Indicator: Capacity, Value: 10, Percent: true, Timing: TimingImmediate},
//	})
//	// updated.CurrentCapacity == 6600
func Apply(snap Snapshot, effects []Effect) (Snapshot, error) {
	updated := snap
	for i, effect := range effects {
		switch effect.Timing {
		case TimingPermanent:
			continue
		case TimingImmediate:
		default:
			return snap, fmt.Errorf("effect %d: %w: %q", i, ErrUnknownTiming, effect.Timing)
		}

		delta := effect.Value
		if effect.Percent {
			current, err := updated.Current(effect.Indicator)
			if err != nil {
				return snap, fmt.Errorf("effect %d: %w", i, err)
			}
			delta = current * effect.Value / 100
		}
		if err := updated.addCurrent(effect.Indicator, delta); err != nil {
			return snap, fmt.Errorf("effect %d: %w", i, err)
		}
	}
	return updated, nil
}
