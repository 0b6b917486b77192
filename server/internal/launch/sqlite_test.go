package launch

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/launchdash/launchdash/pkg/types"
)

// writeDB creates a SQLite database at a temp path, runs stmts and returns
// the path.
func writeDB(t *testing.T, stmts ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "launches.db")
	db, err := sql.Open("sqlite", p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return p
}

func TestLoadSQLite_RowOrderAndFlightNumber(t *testing.T) {
	p := writeDB(t,
		`CREATE TABLE launches (flight_number INTEGER, launch_site TEXT, payload_mass_kg REAL, booster_version TEXT, class INTEGER)`,
		`INSERT INTO launches VALUES (1, 'CCAFS LC-40', 0, 'F9 v1.0 B0003', 0)`,
		`INSERT INTO launches VALUES (19, 'KSC LC-39A', 2490, 'F9 FT B1031.1', 1)`,
		`INSERT INTO launches VALUES (11, 'VAFB SLC-4E', 500, 'F9 v1.1 B1003', 0)`,
	)

	tbl, err := LoadFile(p, "", "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := []types.Record{
		{FlightNumber: 1, LaunchSite: "CCAFS LC-40", PayloadMassKg: 0, BoosterVersion: "F9 v1.0 B0003", Class: types.Failure},
		{FlightNumber: 19, LaunchSite: "KSC LC-39A", PayloadMassKg: 2490, BoosterVersion: "F9 FT B1031.1", Class: types.Success},
		{FlightNumber: 11, LaunchSite: "VAFB SLC-4E", PayloadMassKg: 500, BoosterVersion: "F9 v1.1 B1003", Class: types.Failure},
	}
	if diff := cmp.Diff(want, tbl.Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSQLite_CustomTableWithoutFlightNumber(t *testing.T) {
	p := writeDB(t,
		`CREATE TABLE spacex (launch_site TEXT, payload_mass_kg REAL, booster_version TEXT, class INTEGER)`,
		`INSERT INTO spacex VALUES ('A', 100, 'b1', 1)`,
	)

	tbl, err := LoadSQLite(p, "spacex")
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if tbl.Len() != 1 || tbl.At(0).FlightNumber != 0 {
		t.Errorf("got %+v", tbl.Records())
	}
}

func TestLoadSQLite_MissingTable(t *testing.T) {
	p := writeDB(t, `CREATE TABLE other (x INTEGER)`)
	if _, err := LoadSQLite(p, "launches"); err == nil {
		t.Fatal("expected error for missing table, got nil")
	}
}

func TestLoadSQLite_InvalidTableName(t *testing.T) {
	p := writeDB(t, `CREATE TABLE launches (x INTEGER)`)
	if _, err := LoadSQLite(p, "launches; DROP TABLE launches"); err == nil {
		t.Fatal("expected error for invalid table name, got nil")
	}
}

func TestLoadSQLite_MissingFile(t *testing.T) {
	if _, err := LoadSQLite(filepath.Join(t.TempDir(), "nope.db"), ""); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadSQLite_InvalidClass(t *testing.T) {
	p := writeDB(t,
		`CREATE TABLE launches (launch_site TEXT, payload_mass_kg REAL, booster_version TEXT, class INTEGER)`,
		`INSERT INTO launches VALUES ('A', 100, 'b1', 3)`,
	)
	if _, err := LoadSQLite(p, ""); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}
