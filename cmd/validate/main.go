// Command validate checks a daily temperature CSV before the dashboard loads
// it: header and date format, missing-value rate, unit conversion, min/max
// ordering, and whether readings fall inside the gauge's scale. It also
// confirms the dashboard's loader accepts exactly the rows the checks accept.
//
// Usage:
//
//	go run ./cmd/validate -csv data/synthetic_weather.csv -max-missing 0.05
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/thermo-gauge-service/internal/adapter/csvsource"
	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
)

const dateLayout = "2006-01-02"

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the daily temperature CSV")
	maxMissing := flag.Float64("max-missing", 0.05, "largest tolerated fraction of rows with a missing TMAX or TMIN")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *maxMissing); code != 0 {
		os.Exit(code)
	}
}

func run(path string, maxMissing float64) int {
	fmt.Println("=== Daily Temperature CSV Validation ===")
	fmt.Println()

	header, rows, err := loadCSV(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	records, schema := validateSchema(header, rows)
	phases := []*phase{
		schema,
		validateMissing(rows, maxMissing),
		validateOrdering(records),
		validateScale(records, gauge.DefaultConfig()),
		validateLoader(path, records),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d data rows, %d complete records\n", len(rows), len(records))
	if len(records) > 0 {
		fmt.Printf("Range: %s to %s\n", records[0].Date, records[len(records)-1].Date)
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// csvRow is a parsed CSV row with field values keyed by upper-cased header name.
type csvRow struct {
	lineNum int
	fields  map[string]string
}

// lineRecord is a converted record with the line it came from.
type lineRecord struct {
	domain.TemperatureRecord
	lineNum int
}

func loadCSV(path string) ([]string, []csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}

	header := make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	rows := make([]csvRow, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[h] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, csvRow{lineNum: i + 2, fields: fields})
	}
	return header, rows, nil
}

// ── Phase 1: Schema ──
// Validates required columns, date format and uniqueness, and that present
// values convert. Returns the complete records for later phases.

func validateSchema(header []string, rows []csvRow) ([]lineRecord, *phase) {
	p := &phase{name: "Phase 1: Schema (columns, dates, values)"}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range []string{csvsource.ColDate, csvsource.ColTMax, csvsource.ColTMin} {
		if !present[col] {
			p.errorf("header missing column %s", col)
		}
	}
	if !p.passed() {
		return nil, p
	}

	seen := make(map[string]int, len(rows))
	var prev time.Time
	records := make([]lineRecord, 0, len(rows))
	for _, row := range rows {
		date := row.fields[csvsource.ColDate]
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			p.errorf("line %d: DATE %q is not YYYY-MM-DD", row.lineNum, date)
			continue
		}
		if first, dup := seen[date]; dup {
			p.errorf("line %d: duplicate DATE %s (first on line %d)", row.lineNum, date, first)
			continue
		}
		seen[date] = row.lineNum
		if !prev.IsZero() && d.Before(prev) {
			p.errorf("line %d: DATE %s out of order", row.lineNum, date)
		}
		prev = d

		rec, err := domain.ParseRow(domain.RawRow{
			Date: date,
			TMax: row.fields[csvsource.ColTMax],
			TMin: row.fields[csvsource.ColTMin],
		})
		switch {
		case errors.Is(err, domain.ErrMissingValue):
			continue
		case err != nil:
			p.errorf("line %d: %v", row.lineNum, err)
			continue
		}
		if err := checkConversion(row, rec); err != nil {
			p.errorf("line %d: %v", row.lineNum, err)
		}
		records = append(records, lineRecord{TemperatureRecord: rec, lineNum: row.lineNum})
	}
	return records, p
}

// checkConversion recomputes the Fahrenheit values from the raw tenths and
// checks they round back to the integer tenths stored in the file.
func checkConversion(row csvRow, rec domain.TemperatureRecord) error {
	for _, c := range []struct {
		col string
		got float64
	}{
		{csvsource.ColTMax, rec.MaxF},
		{csvsource.ColTMin, rec.MinF},
	} {
		raw := strings.TrimSpace(row.fields[c.col])
		tenths, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s %q: %w", c.col, raw, err)
		}
		if want := float64(tenths)/10*9/5 + 32; !floatEq(want, c.got) {
			return fmt.Errorf("%s converts to %g, want %g", c.col, c.got, want)
		}
		if back := domain.FahrenheitToTenthsCelsius(c.got); back != tenths {
			return fmt.Errorf("%s %g°F rounds back to %d tenths, want %d", c.col, c.got, back, tenths)
		}
	}
	return nil
}

// ── Phase 2: Missing values ──
// Rows missing TMAX or TMIN are dropped by the loader; too many of them means
// a broken export rather than sensor gaps.

func validateMissing(rows []csvRow, maxFraction float64) *phase {
	p := &phase{name: "Phase 2: Missing values"}
	if len(rows) == 0 {
		return p
	}

	var missing int
	for _, row := range rows {
		if row.fields[csvsource.ColTMax] == "" || row.fields[csvsource.ColTMin] == "" {
			missing++
		}
	}
	if frac := float64(missing) / float64(len(rows)); frac > maxFraction {
		p.errorf("%d of %d rows (%.1f%%) missing TMAX or TMIN, limit %.1f%%",
			missing, len(rows), frac*100, maxFraction*100)
	}
	return p
}

// ── Phase 3: Ordering ──
// The dashboard shows min and max side by side; min above max is accepted
// by the loader but is almost always a swapped column.

func validateOrdering(records []lineRecord) *phase {
	p := &phase{name: "Phase 3: Min/max ordering"}
	for _, r := range records {
		if r.MinF > r.MaxF {
			p.errorf("line %d (%s): min %.1f°F above max %.1f°F", r.lineNum, r.Date, r.MinF, r.MaxF)
		}
	}
	return p
}

// ── Phase 4: Gauge scale ──
// Values outside the scale still render, extrapolated past the tube.

func validateScale(records []lineRecord, cfg gauge.Config) *phase {
	p := &phase{name: fmt.Sprintf("Phase 4: Gauge scale [%g, %g]°F", cfg.FMin, cfg.FMax)}
	for _, r := range records {
		for _, v := range []struct {
			label string
			f     float64
		}{{"min", r.MinF}, {"max", r.MaxF}} {
			if !cfg.InDomain(v.f) {
				p.errorf("line %d (%s): %s %.1f°F outside gauge scale", r.lineNum, r.Date, v.label, v.f)
			}
		}
	}
	return p
}

// ── Phase 5: Loader parity ──
// The dashboard's loader must accept exactly the records the checks above
// accepted, with identical values.

func validateLoader(path string, records []lineRecord) *phase {
	p := &phase{name: "Phase 5: Loader parity"}

	ds, stats, err := csvsource.Load(path)
	if err != nil {
		p.errorf("loader: %v", err)
		return p
	}
	if ds.Len() != len(records) {
		p.errorf("loader produced %d records, validation accepted %d (rows %d, missing %d, malformed %d)",
			ds.Len(), len(records), stats.Rows, stats.Missing, stats.Malformed)
	}
	for _, r := range records {
		got, ok := ds.Lookup(r.Date)
		if !ok {
			p.errorf("line %d: loader dropped %s", r.lineNum, r.Date)
			continue
		}
		if !floatEq(got.MinF, r.MinF) || !floatEq(got.MaxF, r.MaxF) {
			p.errorf("line %d: loader values %.2f/%.2f, want %.2f/%.2f", r.lineNum, got.MinF, got.MaxF, r.MinF, r.MaxF)
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
