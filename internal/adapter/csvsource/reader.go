// Package csvsource reads and writes the daily temperature CSV the dashboard
// selects from.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
)

// Required column names.
const (
	ColDate = "DATE"
	ColTMax = "TMAX"
	ColTMin = "TMIN"
)

// Stats counts what happened to each data row during a read.
type Stats struct {
	Rows      int `json:"rows"`
	Loaded    int `json:"loaded"`
	Missing   int `json:"missing"`   // TMAX or TMIN empty
	Malformed int `json:"malformed"` // unparseable value, short row, or empty DATE
}

// Skipped is the number of rows that did not produce a record.
func (s Stats) Skipped() int { return s.Missing + s.Malformed }

// Load reads the CSV at path.
func Load(path string) (*domain.Dataset, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, stats, err := Read(f)
	if err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, stats, nil
}

// Read parses a CSV with a header row containing at least DATE, TMAX and TMIN
// (any order, other columns ignored). Rows missing either temperature are
// discarded whole; rows that fail to parse are skipped and counted.
func Read(r io.Reader) (*domain.Dataset, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Stats{}, errors.New("empty csv: no header row")
		}
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}

	colIdx, err := indexColumns(header)
	if err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	var records []domain.TemperatureRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		rec, err := domain.ParseRow(domain.RawRow{
			Date: get(row, colIdx, ColDate),
			TMax: get(row, colIdx, ColTMax),
			TMin: get(row, colIdx, ColTMin),
		})
		switch {
		case errors.Is(err, domain.ErrMissingValue):
			stats.Missing++
			continue
		case err != nil:
			stats.Malformed++
			continue
		}
		records = append(records, rec)
		stats.Loaded++
	}

	return domain.NewDataset(records), stats, nil
}

func indexColumns(header []string) (map[string]int, error) {
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := colIdx[h]; !dup {
			colIdx[h] = i
		}
	}
	var missing []string
	for _, col := range []string{ColDate, ColTMax, ColTMin} {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv header missing columns: %s", strings.Join(missing, ", "))
	}
	return colIdx, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
