package launch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/launchdash/launchdash/pkg/types"
)

// CSV header names, as exported by the launch records notebook.
const (
	ColLaunchSite     = "Launch Site"
	ColPayloadMass    = "Payload Mass (kg)"
	ColBoosterVersion = "Booster Version"
	ColClass          = "class"
	ColFlightNumber   = "Flight Number"
)

// LoadCSVFile opens path and parses it with LoadCSV.
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("launch: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %q)", err, path)
	}
	return t, nil
}

// LoadCSV parses a CSV dataset with a header row. Columns are located by
// name; an optional leading unnamed index column (as written by pandas) is
// ignored along with every other unknown column.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("launch: csv: missing header row")
		}
		return nil, fmt.Errorf("launch: csv: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{ColLaunchSite, ColPayloadMass, ColBoosterVersion, ColClass} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("launch: csv: missing column %q", col)
		}
	}
	flightCol, hasFlight := idx[ColFlightNumber]

	var records []types.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("launch: csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rec := types.Record{
			LaunchSite:     strings.TrimSpace(row[idx[ColLaunchSite]]),
			BoosterVersion: strings.TrimSpace(row[idx[ColBoosterVersion]]),
		}
		if rec.PayloadMassKg, err = strconv.ParseFloat(strings.TrimSpace(row[idx[ColPayloadMass]]), 64); err != nil {
			return nil, fmt.Errorf("launch: csv line %d: %s: %w", line, ColPayloadMass, err)
		}
		class, err := parseClass(row[idx[ColClass]])
		if err != nil {
			return nil, fmt.Errorf("launch: csv line %d: %s: %w", line, ColClass, err)
		}
		rec.Class = class
		if hasFlight {
			if v := strings.TrimSpace(row[flightCol]); v != "" {
				if rec.FlightNumber, err = strconv.Atoi(v); err != nil {
					return nil, fmt.Errorf("launch: csv line %d: %s: %w", line, ColFlightNumber, err)
				}
			}
		}
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("launch: csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return NewTable(records)
}

// parseClass accepts "0"/"1" and the float spellings "0.0"/"1.0" that
// spreadsheet exports sometimes produce.
func parseClass(s string) (types.Outcome, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	switch v {
	case 0:
		return types.Failure, nil
	case 1:
		return types.Success, nil
	default:
		return 0, fmt.Errorf("value %v is not 0 or 1", v)
	}
}
