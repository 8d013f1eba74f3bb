package domain

import "time"

// Dataset is an ordered, read-only collection of daily records keyed by date.
// The first record for a date wins; later duplicates are ignored.
type Dataset struct {
	records  []TemperatureRecord
	index    map[string]int
	loadedAt time.Time
}

// NewDataset builds a Dataset from records in source order.
func NewDataset(records []TemperatureRecord) *Dataset {
	d := &Dataset{
		records:  make([]TemperatureRecord, 0, len(records)),
		index:    make(map[string]int, len(records)),
		loadedAt: clock.Now(),
	}
	for _, r := range records {
		if _, dup := d.index[r.Date]; dup {
			continue
		}
		d.index[r.Date] = len(d.records)
		d.records = append(d.records, r)
	}
	return d
}

// Lookup returns the record for date.
func (d *Dataset) Lookup(date string) (TemperatureRecord, bool) {
	if d == nil {
		return TemperatureRecord{}, false
	}
	i, ok := d.index[date]
	if !ok {
		return TemperatureRecord{}, false
	}
	return d.records[i], true
}

// Dates returns every date key in source order.
func (d *Dataset) Dates() []string {
	if d == nil {
		return nil
	}
	dates := make([]string, len(d.records))
	for i, r := range d.records {
		dates[i] = r.Date
	}
	return dates
}

// Records returns a copy of the records in source order.
func (d *Dataset) Records() []TemperatureRecord {
	if d == nil {
		return nil
	}
	out := make([]TemperatureRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Len reports the number of distinct dates.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// First returns the first record in source order.
func (d *Dataset) First() (TemperatureRecord, bool) {
	if d.Len() == 0 {
		return TemperatureRecord{}, false
	}
	return d.records[0], true
}

// LoadedAt is the time the dataset was built.
func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}
