package finance

import (
	"errors"
	"testing"
)

func launchTable() RateTable {
	return RateTable{
		{Threshold: 0.00, Value: 0.30},
		{Threshold: 0.15, Value: 0.26},
		{Threshold: 0.30, Value: 0.22},
		{Threshold: 0.45, Value: 0.18},
	}
}

func TestRateTableValidate(t *testing.T) {
	tests := []struct {
		name  string
		table RateTable
		err   error
	}{
		{
			name:  "valid",
			table: launchTable(),
		},
		{
			name: "empty",
			err:  ErrEmptyRateTable,
		},
		{
			name: "descending",
			table: RateTable{
				{Threshold: 0.30, Value: 0.22},
				{Threshold: 0.15, Value: 0.26},
			},
			err: ErrUnsortedRateTable,
		},
		{
			name: "duplicate threshold",
			table: RateTable{
				{Threshold: 0.15, Value: 0.26},
				{Threshold: 0.15, Value: 0.22},
			},
			err: ErrUnsortedRateTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.table.Validate(); !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
		})
	}
}

func TestRateForSelectsBand(t *testing.T) {
	table := launchTable()
	tests := []struct {
		name   string
		margin float64
		want   float64
	}{
		{name: "below table floors to first band", margin: -0.20, want: 0.30},
		{name: "first band", margin: 0.10, want: 0.30},
		{name: "exactly at threshold", margin: 0.15, want: 0.26},
		{name: "inside band", margin: 0.29, want: 0.26},
		{name: "top band", margin: 0.64, want: 0.18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.RateFor(tt.margin); got != tt.want {
				t.Fatalf("rate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateForEmptyTable(t *testing.T) {
	var table RateTable
	if got := table.RateFor(0.5); got != 0 {
		t.Fatalf("rate = %v, want 0", got)
	}
}
