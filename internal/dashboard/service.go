// Package dashboard ties the dataset to the min and max gauges: it resolves
// a selected date to a record and starts both transitions.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/thermo-gauge-service/internal/animate"
	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

var (
	// ErrDateNotFound is returned when a selected date has no record.
	ErrDateNotFound = errors.New("date not found")
	// ErrNoDataset is returned before any dataset has loaded.
	ErrNoDataset = errors.New("no dataset loaded")
)

// Source produces a fresh dataset.
type Source interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// Selector starts the min and max gauges towards a day's readings.
type Selector interface {
	Select(minF, maxF float64) error
	Snapshots() []animate.GaugeSnapshot
	Settled() bool
}

// Snapshot is the dashboard state returned to clients.
type Snapshot struct {
	Date       string                    `json:"date,omitempty"`
	Record     *domain.TemperatureRecord `json:"record,omitempty"`
	SelectedAt *time.Time                `json:"selected_at,omitempty"`
	Records    int                       `json:"records"`
	LoadedAt   *time.Time                `json:"dataset_loaded_at,omitempty"`
	Settled    bool                      `json:"settled"`
	Gauges     []animate.GaugeSnapshot   `json:"gauges"`
}

// Service owns the active dataset and the current selection.
type Service struct {
	source   Source
	gauges   Selector
	logger   *slog.Logger
	metrics  *observability.Metrics
	dataset  atomic.Pointer[domain.Dataset]
	reloadMu sync.Mutex

	mu         sync.Mutex
	selected   *domain.TemperatureRecord
	selectedAt time.Time
}

// NewService creates a service with no dataset. Call Reload before Select.
func NewService(source Source, gauges Selector, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:  source,
		gauges:  gauges,
		logger:  logger.With("component", "dashboard"),
		metrics: metrics,
	}
}

// Reload reads a new dataset and swaps it in. On failure the previous
// dataset stays active. The current selection is kept even if its date is
// absent from the new dataset.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ds, err := s.source.Load(ctx)
	if err != nil {
		s.metrics.DatasetReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("reload dataset: %w", err)
	}
	s.dataset.Store(ds)
	s.metrics.DatasetReloads.WithLabelValues("success").Inc()
	s.metrics.DatasetRecords.Set(float64(ds.Len()))
	return nil
}

// Dates lists the selectable dates in file order.
func (s *Service) Dates() []string {
	return s.dataset.Load().Dates()
}

// Record looks up the record for date.
func (s *Service) Record(date string) (domain.TemperatureRecord, error) {
	ds := s.dataset.Load()
	if ds == nil {
		return domain.TemperatureRecord{}, ErrNoDataset
	}
	rec, ok := ds.Lookup(date)
	if !ok {
		return domain.TemperatureRecord{}, fmt.Errorf("%q: %w", date, ErrDateNotFound)
	}
	return rec, nil
}

// Select moves both gauges to date's readings. An unknown date leaves the
// gauges and the current selection untouched.
func (s *Service) Select(ctx context.Context, date string) (domain.TemperatureRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.TemperatureRecord{}, err
	}

	rec, err := s.Record(date)
	if err != nil {
		s.metrics.Selections.WithLabelValues("not_found").Inc()
		s.logger.Debug("selection ignored", "date", date, "error", err)
		return domain.TemperatureRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gauges.Select(rec.MinF, rec.MaxF); err != nil {
		s.metrics.Selections.WithLabelValues("error").Inc()
		return domain.TemperatureRecord{}, fmt.Errorf("select %q: %w", date, err)
	}
	s.selected = &rec
	s.selectedAt = domain.Now()
	s.metrics.Selections.WithLabelValues("applied").Inc()
	s.logger.Info("date selected", "date", rec.Date, "min_f", rec.MinF, "max_f", rec.MaxF)
	return rec, nil
}

// Snapshot returns the current selection and gauge states.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	ds := s.dataset.Load()
	snap := Snapshot{
		Records: ds.Len(),
		Settled: s.gauges.Settled(),
		Gauges:  s.gauges.Snapshots(),
	}
	if ds != nil {
		at := ds.LoadedAt()
		snap.LoadedAt = &at
	}
	if s.selected != nil {
		rec := *s.selected
		at := s.selectedAt
		snap.Date = rec.Date
		snap.Record = &rec
		snap.SelectedAt = &at
	}
	s.mu.Unlock()
	return snap
}

// CheckReadiness reports ready once a dataset with at least one record is
// active.
func (s *Service) CheckReadiness(_ context.Context) error {
	ds := s.dataset.Load()
	if ds == nil {
		return ErrNoDataset
	}
	if ds.Len() == 0 {
		return errors.New("dataset has no records")
	}
	return nil
}
