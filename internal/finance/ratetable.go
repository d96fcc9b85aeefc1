package finance

import "errors"

var (
	// ErrEmptyRateTable indicates a rate table with no rows.
	ErrEmptyRateTable = errors.New("rate table must have at least one row")
	// ErrUnsortedRateTable indicates thresholds out of ascending order.
	ErrUnsortedRateTable = errors.New("rate table thresholds must ascend")
)

// Rate is one overhead band: margins at or above Threshold pay Value of
// revenue as overhead, until a higher band takes over.
type Rate struct {
	Threshold float64
	Value     float64
}

// RateTable maps gross margin to an overhead rate. Rows ascend by
// threshold; the first row is the floor band for margins below the table.
type RateTable []Rate

// Validate checks the table is non-empty with ascending thresholds.
func (t RateTable) Validate() error {
	if len(t) == 0 {
		return ErrEmptyRateTable
	}
	for i := 1; i < len(t); i++ {
		if t[i].Threshold <= t[i-1].Threshold {
			return ErrUnsortedRateTable
		}
	}
	return nil
}

// RateFor returns the overhead rate of the highest band whose threshold is
// at or below the gross margin. Margins below every band pay the first
// band's rate.
func (t RateTable) RateFor(grossMargin float64) float64 {
	if len(t) == 0 {
		return 0
	}
	rate := t[0].Value
	for _, row := range t {
		if grossMargin < row.Threshold {
			break
		}
		rate = row.Value
	}
	return rate
}
