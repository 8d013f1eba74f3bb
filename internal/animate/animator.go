package animate

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

// Gauge identifiers used by the dashboard.
const (
	MinGauge = "min"
	MaxGauge = "max"
)

// ErrUnknownGauge is returned for a gauge id that was never added.
var ErrUnknownGauge = errors.New("unknown gauge")

// Animator owns a set of gauges sharing one geometry, scheduler, and clock.
type Animator struct {
	geometry  gauge.Config
	scheduler Scheduler
	clock     clockwork.Clock
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu     sync.RWMutex
	gauges map[string]*Gauge
	order  []string
}

// NewAnimator validates geometry and returns an Animator with no gauges.
func NewAnimator(geometry gauge.Config, s Scheduler, clock clockwork.Clock, opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Animator, error) {
	if err := geometry.Validate(); err != nil {
		return nil, fmt.Errorf("gauge geometry: %w", err)
	}
	if opts.Duration < 0 {
		return nil, fmt.Errorf("negative transition duration %s", opts.Duration)
	}
	return &Animator{
		geometry:  geometry,
		scheduler: s,
		clock:     clock,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
		gauges:    make(map[string]*Gauge),
	}, nil
}

// AddGauge registers a gauge drawing to r.
func (a *Animator) AddGauge(id string, r Renderable) (*Gauge, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.gauges[id]; ok {
		return nil, fmt.Errorf("gauge %q already registered", id)
	}
	g := NewGauge(id, a.geometry, r, a.scheduler, a.clock, a.opts, a.logger, a.metrics)
	a.gauges[id] = g
	a.order = append(a.order, id)
	return g, nil
}

// Gauge returns the gauge registered under id.
func (a *Animator) Gauge(id string) (*Gauge, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	g, ok := a.gauges[id]
	return g, ok
}

// StartTransition moves gauge id towards target.
func (a *Animator) StartTransition(id string, target float64) (Transition, error) {
	g, ok := a.Gauge(id)
	if !ok {
		return Transition{}, fmt.Errorf("start transition %q: %w", id, ErrUnknownGauge)
	}
	return g.Start(target), nil
}

// Snapshots returns every gauge's state in registration order.
func (a *Animator) Snapshots() []GaugeSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]GaugeSnapshot, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.gauges[id].Snapshot())
	}
	return out
}

// Settled reports whether every gauge is idle.
func (a *Animator) Settled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, g := range a.gauges {
		if !g.Idle() {
			return false
		}
	}
	return true
}

// Select starts the min and max gauges towards one day's readings.
func (a *Animator) Select(minF, maxF float64) error {
	if _, err := a.StartTransition(MinGauge, minF); err != nil {
		return err
	}
	if _, err := a.StartTransition(MaxGauge, maxF); err != nil {
		return err
	}
	return nil
}
