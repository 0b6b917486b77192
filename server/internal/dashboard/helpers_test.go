package dashboard

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/launch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func rec(site string, kg float64, booster string, class types.Outcome) types.Record {
	return types.Record{LaunchSite: site, PayloadMassKg: kg, BoosterVersion: booster, Class: class}
}

func newTable(t *testing.T, records ...types.Record) *launch.Table {
	t.Helper()
	tbl, err := launch.NewTable(records)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

// scenarioTable has site X with 3 successes and 1 failure, and site Y with
// 2 failures.
func scenarioTable(t *testing.T) *launch.Table {
	return newTable(t,
		rec("X", 500, "F9 v1.0", types.Success),
		rec("Y", 1200, "F9 v1.1", types.Failure),
		rec("X", 1000, "F9 v1.1", types.Failure),
		rec("X", 2000, "F9 FT", types.Success),
		rec("Y", 9000, "F9 B4", types.Failure),
		rec("X", 3000, "F9 FT", types.Success),
	)
}

// launchTable is a slice of the real launch records dataset.
func launchTable(t *testing.T) *launch.Table {
	return newTable(t,
		rec("CCAFS LC-40", 0, "F9 v1.0  B0003", types.Failure),
		rec("CCAFS LC-40", 525, "F9 v1.0  B0005", types.Failure),
		rec("CCAFS LC-40", 677, "F9 v1.0  B0007", types.Failure),
		rec("VAFB SLC-4E", 500, "F9 v1.1  B1003", types.Failure),
		rec("CCAFS LC-40", 3170, "F9 v1.1", types.Failure),
		rec("CCAFS LC-40", 3325, "F9 v1.1", types.Success),
		rec("KSC LC-39A", 2490, "F9 FT B1031.1", types.Success),
		rec("KSC LC-39A", 5300, "F9 FT B1030", types.Success),
		rec("VAFB SLC-4E", 9600, "F9 FT B1029.1", types.Success),
		rec("CCAFS SLC-40", 3669, "F9 FT B1035.1", types.Success),
		rec("KSC LC-39A", 6070, "F9 FT B1034", types.Failure),
		rec("CCAFS SLC-40", 2205, "F9 B4 B1039.1", types.Success),
		rec("KSC LC-39A", 3500, "F9 B5 B1046.1", types.Success),
		rec("CCAFS SLC-40", 4400, "F9 B5 B1047.1", types.Failure),
	)
}
