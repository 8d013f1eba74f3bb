// Command genmock writes a deterministic synthetic daily temperature CSV in
// the GHCN-Daily shape the dashboard loads. It reads the file back through the
// dashboard's own loader so the printed stats match what the service will see.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/synthetic_weather.csv \
//	  -days 366 -seed 42 -missing-rate 0.02
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/thermo-gauge-service/internal/adapter/csvsource"
	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := csvsource.DefaultGenerateOptions()

	out := flag.String("out", "", "output path for the synthetic CSV")
	station := flag.String("station", defaults.Station, "station id written to every row")
	start := flag.String("start", defaults.Start.Format(time.DateOnly), "first date (YYYY-MM-DD)")
	days := flag.Int("days", defaults.Days, "number of consecutive days")
	seed := flag.Uint64("seed", defaults.Seed, "random seed")
	missingRate := flag.Float64("missing-rate", defaults.MissingRate, "probability that a row leaves TMAX or TMIN empty")
	meanC := flag.Float64("mean-c", defaults.MeanC, "annual mean temperature in °C")
	amplitudeC := flag.Float64("amplitude-c", defaults.AmplitudeC, "seasonal swing of the daily mean in °C")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	startDate, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	opts := defaults
	opts.Station = *station
	opts.Start = startDate
	opts.Days = *days
	opts.Seed = *seed
	opts.MissingRate = *missingRate
	opts.MeanC = *meanC
	opts.AmplitudeC = *amplitudeC

	if err := writeCSV(*out, opts); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote synthetic dataset: %s", *out)

	ds, stats, err := csvsource.Load(*out)
	if err != nil {
		return fmt.Errorf("reading back %s: %w", *out, err)
	}
	printStats(ds, stats)
	return nil
}

func writeCSV(path string, opts csvsource.GenerateOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := csvsource.Generate(w, opts); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(ds *domain.Dataset, stats csvsource.Stats) {
	cfg := gauge.DefaultConfig()

	var coldest, hottest domain.TemperatureRecord
	var hotMax, coldMin, outOfScale int
	for i, r := range ds.Records() {
		if i == 0 || r.MinF < coldest.MinF {
			coldest = r
		}
		if i == 0 || r.MaxF > hottest.MaxF {
			hottest = r
		}
		if gauge.PaletteFor(r.MaxF).Name == gauge.Hot.Name {
			hotMax++
		}
		if gauge.PaletteFor(r.MinF).Name == gauge.Cold.Name {
			coldMin++
		}
		if !cfg.InDomain(r.MinF) || !cfg.InDomain(r.MaxF) {
			outOfScale++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Rows: %d, loaded: %d, missing: %d, malformed: %d\n",
		stats.Rows, stats.Loaded, stats.Missing, stats.Malformed)
	fmt.Printf("Distinct dates: %d\n", ds.Len())
	if first, ok := ds.First(); ok {
		fmt.Printf("First record: %s min=%.1f°F max=%.1f°F\n", first.Date, first.MinF, first.MaxF)
	}
	fmt.Printf("Coldest min: %s %.1f°F\n", coldest.Date, coldest.MinF)
	fmt.Printf("Hottest max: %s %.1f°F\n", hottest.Date, hottest.MaxF)
	fmt.Printf("Days with hot max gauge: %d, cold min gauge: %d\n", hotMax, coldMin)
	fmt.Printf("Days outside [%g, %g]°F: %d\n", cfg.FMin, cfg.FMax, outOfScale)
}
