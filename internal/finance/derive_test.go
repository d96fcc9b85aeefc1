package finance

import (
	"testing"

	"github.com/crucible-games/boardroom/internal/indicator"
)

const launchMaterialUnitCost = 400

func launchSnapshot() indicator.Snapshot {
	return indicator.Snapshot{
		SessionID:        "sess-1",
		TeamID:           "team-1",
		Round:            1,
		CurrentCapacity:  5000,
		CurrentOrders:    6250,
		CurrentCost:      1_200_000,
		CurrentUnitPrice: 1000,
	}
}

func TestDeriveLaunchBaseline(t *testing.T) {
	stmt := Derive(launchSnapshot(), launchTable(), launchMaterialUnitCost)

	// units sold = min(5000, 6250); revenue = 5000 * 1000.
	if stmt.UnitsSold != 5000 {
		t.Fatalf("units sold = %v, want 5000", stmt.UnitsSold)
	}
	if stmt.Revenue != 5_000_000 {
		t.Fatalf("revenue = %v, want 5000000", stmt.Revenue)
	}
	// cost of goods = 1,200,000 + 5000*400 = 3,200,000.
	if stmt.CostOfGoods != 3_200_000 {
		t.Fatalf("cost of goods = %v, want 3200000", stmt.CostOfGoods)
	}
	// gross margin 0.36 lands in the 0.30 band.
	if stmt.GrossMargin != 0.36 {
		t.Fatalf("gross margin = %v, want 0.36", stmt.GrossMargin)
	}
	if stmt.OverheadRate != 0.22 {
		t.Fatalf("overhead rate = %v, want 0.22", stmt.OverheadRate)
	}
	if stmt.OverheadCost != 1_100_000 {
		t.Fatalf("overhead cost = %v, want 1100000", stmt.OverheadCost)
	}
	if stmt.NetIncome != 700_000 {
		t.Fatalf("net income = %v, want 700000", stmt.NetIncome)
	}
	if stmt.NetMargin != 0.14 {
		t.Fatalf("net margin = %v, want 0.14", stmt.NetMargin)
	}
}

func TestDeriveCapacityBoundsUnitsSold(t *testing.T) {
	snap := launchSnapshot()
	snap.CurrentOrders = 4200

	stmt := Derive(snap, launchTable(), launchMaterialUnitCost)
	if stmt.UnitsSold != 4200 {
		t.Fatalf("units sold = %v, want 4200", stmt.UnitsSold)
	}
	if stmt.Revenue != 4_200_000 {
		t.Fatalf("revenue = %v, want 4200000", stmt.Revenue)
	}
}

func TestDeriveMarginExactlyAtThreshold(t *testing.T) {
	// revenue 4,000,000 and cost of goods 3,400,000 give a gross margin of
	// exactly 0.15, the second band's threshold.
	snap := launchSnapshot()
	snap.CurrentCapacity = 4000
	snap.CurrentOrders = 9000
	snap.CurrentCost = 1_800_000

	stmt := Derive(snap, launchTable(), launchMaterialUnitCost)
	if stmt.GrossMargin != 0.15 {
		t.Fatalf("gross margin = %v, want 0.15", stmt.GrossMargin)
	}
	if stmt.OverheadRate != 0.26 {
		t.Fatalf("overhead rate = %v, want 0.26", stmt.OverheadRate)
	}
}

func TestDeriveMarginBelowTableFloors(t *testing.T) {
	snap := launchSnapshot()
	snap.CurrentCost = 6_000_000

	stmt := Derive(snap, launchTable(), launchMaterialUnitCost)
	if stmt.GrossMargin >= 0 {
		t.Fatalf("gross margin = %v, want negative", stmt.GrossMargin)
	}
	if stmt.OverheadRate != 0.30 {
		t.Fatalf("overhead rate = %v, want 0.30", stmt.OverheadRate)
	}
	if stmt.NetIncome >= 0 {
		t.Fatalf("net income = %v, want negative", stmt.NetIncome)
	}
}

func TestDeriveZeroRevenue(t *testing.T) {
	snap := launchSnapshot()
	snap.CurrentCapacity = 0

	stmt := Derive(snap, launchTable(), launchMaterialUnitCost)
	if stmt.Revenue != 0 {
		t.Fatalf("revenue = %v, want 0", stmt.Revenue)
	}
	if stmt.GrossMargin != 0 || stmt.NetMargin != 0 {
		t.Fatalf("margins = %v/%v, want 0/0", stmt.GrossMargin, stmt.NetMargin)
	}
	if stmt.NetIncome != -1_200_000 {
		t.Fatalf("net income = %v, want -1200000", stmt.NetIncome)
	}
}

func TestDeriveNegativeIndicatorsFloorUnitsSold(t *testing.T) {
	snap := launchSnapshot()
	snap.CurrentOrders = -500

	stmt := Derive(snap, launchTable(), launchMaterialUnitCost)
	if stmt.UnitsSold != 0 {
		t.Fatalf("units sold = %v, want 0", stmt.UnitsSold)
	}
	if stmt.Revenue != 0 {
		t.Fatalf("revenue = %v, want 0", stmt.Revenue)
	}
}

func TestDeriveRoundsMonetaryOutputs(t *testing.T) {
	// 10% capacity bump: units 5500, revenue 5,500,000, cost of goods
	// 3,400,000, gross margin 0.3818, overhead 1,210,000, net 890,000.
	snap := launchSnapshot()
	snap.CurrentCapacity = 5500

	stmt := Derive(snap, launchTable(), launchMaterialUnitCost)
	if stmt.GrossMargin != 0.3818 {
		t.Fatalf("gross margin = %v, want 0.3818", stmt.GrossMargin)
	}
	if stmt.NetIncome != 890_000 {
		t.Fatalf("net income = %v, want 890000", stmt.NetIncome)
	}
	if stmt.NetMargin != 0.1618 {
		t.Fatalf("net margin = %v, want 0.1618", stmt.NetMargin)
	}
}

func TestRefreshStampsSnapshot(t *testing.T) {
	snap := launchSnapshot()
	stmt := Refresh(&snap, launchTable(), launchMaterialUnitCost)

	if snap.Revenue != stmt.Revenue {
		t.Fatalf("snapshot revenue = %v, want %v", snap.Revenue, stmt.Revenue)
	}
	if snap.NetIncome != stmt.NetIncome {
		t.Fatalf("snapshot net income = %v, want %v", snap.NetIncome, stmt.NetIncome)
	}
	if snap.NetMargin != stmt.NetMargin {
		t.Fatalf("snapshot net margin = %v, want %v", snap.NetMargin, stmt.NetMargin)
	}
}
