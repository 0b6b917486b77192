package launch

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/launchdash/launchdash/pkg/types"
)

// Supported dataset formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Table is an ordered, read-only sequence of launch records.
type Table struct {
	records []types.Record
	sites   []string
	siteSet map[string]struct{}
	minKg   float64
	maxKg   float64
}

// NewTable validates records and returns a Table holding a private copy of
// them. The caller may reuse the slice afterwards.
func NewTable(records []types.Record) (*Table, error) {
	t := &Table{
		records: make([]types.Record, len(records)),
		siteSet: make(map[string]struct{}),
	}
	copy(t.records, records)

	for i, r := range t.records {
		if err := validateRecord(r); err != nil {
			return nil, fmt.Errorf("launch: record %d: %w", i, err)
		}
		if _, ok := t.siteSet[r.LaunchSite]; !ok {
			t.siteSet[r.LaunchSite] = struct{}{}
			t.sites = append(t.sites, r.LaunchSite)
		}
		if i == 0 || r.PayloadMassKg < t.minKg {
			t.minKg = r.PayloadMassKg
		}
		if i == 0 || r.PayloadMassKg > t.maxKg {
			t.maxKg = r.PayloadMassKg
		}
	}
	return t, nil
}

func validateRecord(r types.Record) error {
	if strings.TrimSpace(r.LaunchSite) == "" {
		return fmt.Errorf("launch site is empty")
	}
	if r.LaunchSite == types.AllSites {
		return fmt.Errorf("launch site %q collides with the all-sites value", r.LaunchSite)
	}
	if math.IsNaN(r.PayloadMassKg) || math.IsInf(r.PayloadMassKg, 0) || r.PayloadMassKg < 0 {
		return fmt.Errorf("payload mass %v must be a finite non-negative number", r.PayloadMassKg)
	}
	if !r.Class.Valid() {
		return fmt.Errorf("class %d must be 0 or 1", int(r.Class))
	}
	return nil
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// At returns the i-th record in load order.
func (t *Table) At(i int) types.Record { return t.records[i] }

// Records returns a copy of all records in load order.
func (t *Table) Records() []types.Record {
	out := make([]types.Record, len(t.records))
	copy(out, t.records)
	return out
}

// Sites returns the distinct launch sites in first-appearance order.
func (t *Table) Sites() []string {
	out := make([]string, len(t.sites))
	copy(out, t.sites)
	return out
}

// HasSite reports whether at least one record was launched from site.
func (t *Table) HasSite(site string) bool {
	_, ok := t.siteSet[site]
	return ok
}

// PayloadBounds returns the smallest and largest payload mass in the table.
// Both are zero for an empty table.
func (t *Table) PayloadBounds() (min, max float64) {
	return t.minKg, t.maxKg
}

// LoadFile reads a dataset from path. format is FormatCSV or FormatSQLite;
// when empty it is inferred from the file extension. sqliteTable names the
// table to read for SQLite datasets.
func LoadFile(path, format, sqliteTable string) (*Table, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	switch format {
	case FormatCSV:
		return LoadCSVFile(path)
	case FormatSQLite:
		return LoadSQLite(path, sqliteTable)
	default:
		return nil, fmt.Errorf("launch: unsupported dataset format %q", format)
	}
}

// FormatFromPath guesses the dataset format from the file extension.
// Anything that is not a known SQLite extension is treated as CSV.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}
