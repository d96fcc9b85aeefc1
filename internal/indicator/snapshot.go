package indicator

import (
	"errors"
	"fmt"
	"time"
)

// Indicator names. These are the canonical identifiers used by content
// packs, persisted adjustments, and the snapshot columns.
const (
	Capacity  = "capacity"
	Orders    = "orders"
	Cost      = "cost"
	UnitPrice = "unit_price"
)

// ErrUnknownIndicator indicates an indicator name outside the tracked set.
var ErrUnknownIndicator = errors.New("unknown indicator")

// Known reports whether name identifies a tracked indicator.
func Known(name string) bool {
	switch name {
	case Capacity, Orders, Cost, UnitPrice:
		return true
	}
	return false
}

// Snapshot holds one team's indicator values for one round.
//
// Start values are seeded at the round boundary and never change afterward
// except through the round reset sequencer. Current values begin equal to
// the start values and move only through Apply. Revenue, NetIncome, and
// NetMargin are derived from the current values and carried here so readers
// see a consistent picture without recomputing.
type Snapshot struct {
	SessionID string
	TeamID    string
	Round     int

	StartCapacity  float64
	StartOrders    float64
	StartCost      float64
	StartUnitPrice float64

	CurrentCapacity  float64
	CurrentOrders    float64
	CurrentCost      float64
	CurrentUnitPrice float64

	// Revenue and NetIncome are whole currency units. NetMargin is a ratio
	// rounded to four decimal places.
	Revenue   int64
	NetIncome int64
	NetMargin float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Current returns the running value of the named indicator.
func (s Snapshot) Current(name string) (float64, error) {
	switch name {
	case Capacity:
		return s.CurrentCapacity, nil
	case Orders:
		return s.CurrentOrders, nil
	case Cost:
		return s.CurrentCost, nil
	case UnitPrice:
		return s.CurrentUnitPrice, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
}

func (s *Snapshot) addCurrent(name string, delta float64) error {
	switch name {
	case Capacity:
		s.CurrentCapacity += delta
	case Orders:
		s.CurrentOrders += delta
	case Cost:
		s.CurrentCost += delta
	case UnitPrice:
		s.CurrentUnitPrice += delta
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}
	return nil
}

// ApplyToStart shifts the named start value by a fixed amount, or by a
// percentage of its running value when percent is set. The round reset
// sequencer uses this to fold earned permanent adjustments into a fresh
// round baseline.
func (s *Snapshot) ApplyToStart(name string, value float64, percent bool) error {
	var target *float64
	switch name {
	case Capacity:
		target = &s.StartCapacity
	case Orders:
		target = &s.StartOrders
	case Cost:
		target = &s.StartCost
	case UnitPrice:
		target = &s.StartUnitPrice
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}
	delta := value
	if percent {
		delta = *target * value / 100
	}
	*target += delta
	return nil
}

// ResetCurrents sets every current value equal to its start value.
func (s *Snapshot) ResetCurrents() {
	s.CurrentCapacity = s.StartCapacity
	s.CurrentOrders = s.StartOrders
	s.CurrentCost = s.StartCost
	s.CurrentUnitPrice = s.StartUnitPrice
}
