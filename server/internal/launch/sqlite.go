package launch

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/launchdash/launchdash/pkg/types"
)

// DefaultSQLiteTable is the table read when none is configured.
const DefaultSQLiteTable = "launches"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads every row of table from the SQLite database at path, in
// rowid order. Nothing is written to the database.
func LoadSQLite(path, table string) (*Table, error) {
	if table == "" {
		table = DefaultSQLiteTable
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("launch: sqlite: invalid table name %q", table)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("launch: sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("launch: sqlite: open %q: %w", path, err)
	}
	defer db.Close()

	hasFlight, err := hasColumn(db, table, "flight_number")
	if err != nil {
		return nil, err
	}
	flightExpr := "0"
	if hasFlight {
		flightExpr = "COALESCE(flight_number, 0)"
	}

	// table is validated against identRe above.
	q := fmt.Sprintf(
		`SELECT %s, launch_site, payload_mass_kg, booster_version, class FROM %s ORDER BY rowid`,
		flightExpr, table)
	rows, err := db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("launch: sqlite: query %q: %w", table, err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var (
			rec   types.Record
			class int
		)
		if err := rows.Scan(&rec.FlightNumber, &rec.LaunchSite, &rec.PayloadMassKg, &rec.BoosterVersion, &class); err != nil {
			return nil, fmt.Errorf("launch: sqlite: scan row %d: %w", len(records)+1, err)
		}
		rec.Class = types.Outcome(class)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("launch: sqlite: %w", err)
	}

	return NewTable(records)
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, table))
	if err != nil {
		return false, fmt.Errorf("launch: sqlite: table info %q: %w", table, err)
	}
	defer rows.Close()

	found := false
	n := 0
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("launch: sqlite: table info %q: %w", table, err)
		}
		n++
		if name == column {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("launch: sqlite: table info %q: %w", table, err)
	}
	if n == 0 {
		return false, fmt.Errorf("launch: sqlite: table %q not found", table)
	}
	return found, nil
}
