package finance

import (
	"math"

	"github.com/crucible-games/boardroom/internal/indicator"
)

// Statement is the derived financial picture for one snapshot. Monetary
// fields are whole currency units; margins are ratios rounded to four
// decimal places.
type Statement struct {
	UnitsSold    float64
	Revenue      int64
	CostOfGoods  int64
	GrossMargin  float64
	OverheadRate float64
	OverheadCost int64
	NetIncome    int64
	NetMargin    float64
}

// Derive computes a statement from a snapshot's current indicator values.
//
// Units sold is the lesser of capacity and orders, floored at zero. Cost of
// goods is the production cost plus material cost per unit sold. Gross
// margin selects the overhead band; the whole chain is computed in float64
// and rounded once at the edges, so monetary rounding never feeds back into
// the margin lookup. Both margins are zero when revenue is zero.
func Derive(snap indicator.Snapshot, table RateTable, materialUnitCost float64) Statement {
	unitsSold := math.Min(snap.CurrentCapacity, snap.CurrentOrders)
	if unitsSold < 0 {
		unitsSold = 0
	}

	revenue := unitsSold * snap.CurrentUnitPrice
	costOfGoods := snap.CurrentCost + unitsSold*materialUnitCost

	grossMargin := 0.0
	if revenue != 0 {
		grossMargin = round4((revenue - costOfGoods) / revenue)
	}

	rate := table.RateFor(grossMargin)
	overheadCost := revenue * rate
	netIncome := revenue - costOfGoods - overheadCost

	netMargin := 0.0
	if revenue != 0 {
		netMargin = round4(netIncome / revenue)
	}

	return Statement{
		UnitsSold:    unitsSold,
		Revenue:      int64(math.Round(revenue)),
		CostOfGoods:  int64(math.Round(costOfGoods)),
		GrossMargin:  grossMargin,
		OverheadRate: rate,
		OverheadCost: int64(math.Round(overheadCost)),
		NetIncome:    int64(math.Round(netIncome)),
		NetMargin:    netMargin,
	}
}

// Refresh derives a statement and stamps the snapshot's carried financials
// (revenue, net income, net margin) from it.
func Refresh(snap *indicator.Snapshot, table RateTable, materialUnitCost float64) Statement {
	stmt := Derive(*snap, table, materialUnitCost)
	snap.Revenue = stmt.Revenue
	snap.NetIncome = stmt.NetIncome
	snap.NetMargin = stmt.NetMargin
	return stmt
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
