package animate

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

// Renderable is a drawing surface for one gauge.
type Renderable interface {
	// SetFillGeometry moves the mercury rectangle's top edge to y and sets
	// its height.
	SetFillGeometry(y, height float64)
	// SetPalette switches the mercury gradient and bulb colours.
	SetPalette(p gauge.Palette)
}

// State is a gauge's animation state.
type State int

const (
	Idle State = iota
	Animating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON snapshots.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "animating":
		*s = Animating
	default:
		return fmt.Errorf("unknown gauge state %q", b)
	}
	return nil
}

// Options tune transitions.
type Options struct {
	Duration time.Duration
	// RestartFromDisplayed starts a superseding transition from the value on
	// screen instead of the previous target.
	RestartFromDisplayed bool
}

// DefaultOptions returns the dashboard's transition settings.
func DefaultOptions() Options {
	return Options{Duration: DefaultDuration}
}

// Gauge owns the animation state of one thermometer.
type Gauge struct {
	id        string
	geometry  gauge.Config
	renderer  Renderable
	scheduler Scheduler
	clock     clockwork.Clock
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu         sync.Mutex
	previous   *float64 // target of the most recent transition; nil before the first
	displayed  float64
	shown      bool
	generation uint64
	active     *Transition
	state      State
	palette    gauge.Palette
}

// GaugeSnapshot is a point-in-time view of a gauge.
type GaugeSnapshot struct {
	ID         string        `json:"id"`
	Displayed  float64       `json:"displayed"`
	Target     *float64      `json:"target"`
	Y          float64       `json:"y"`
	Height     float64       `json:"height"`
	Palette    gauge.Palette `json:"palette"`
	State      State         `json:"state"`
	Generation uint64        `json:"generation"`
	Transition *Transition   `json:"transition,omitempty"`
	Shown      bool          `json:"shown"`
}

// NewGauge creates a gauge in the Idle state with nothing displayed.
func NewGauge(id string, geometry gauge.Config, r Renderable, s Scheduler, clock clockwork.Clock, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Gauge {
	return &Gauge{
		id:        id,
		geometry:  geometry,
		renderer:  r,
		scheduler: s,
		clock:     clock,
		opts:      opts,
		logger:    logger.With("gauge", id),
		metrics:   metrics,
		palette:   gauge.Cold,
	}
}

// ID returns the gauge identifier.
func (g *Gauge) ID() string { return g.id }

// Start begins a transition to target using the configured duration.
func (g *Gauge) Start(target float64) Transition {
	return g.StartWithDuration(target, g.opts.Duration)
}

// StartWithDuration begins a transition to target, superseding any transition
// in flight. The palette switches to the target's palette immediately. With no
// previous value, or nothing to animate, the gauge snaps to target without
// scheduling frames.
func (g *Gauge) StartWithDuration(target float64, d time.Duration) Transition {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()

	if g.state == Animating {
		g.metrics.TransitionsSuperseded.WithLabelValues(g.id).Inc()
		g.logger.Debug("transition superseded",
			"transition_id", g.active.ID,
			"target", g.active.Target,
			"displayed", g.displayed,
		)
	}

	start := g.previous
	if start != nil && g.opts.RestartFromDisplayed && g.shown {
		displayed := g.displayed
		start = &displayed
	}

	g.generation++
	tr := NewTransition(g.id, start, target, now, d)
	tr.Generation = g.generation

	prev := target
	g.previous = &prev

	g.palette = gauge.PaletteFor(target)
	g.renderer.SetPalette(g.palette)

	if tr.Static() {
		g.render(target)
		g.active = nil
		g.state = Idle
		g.metrics.TransitionsSnapped.WithLabelValues(g.id).Inc()
		g.logger.Debug("gauge snapped", "transition_id", tr.ID, "target", target, "palette", g.palette.Name)
		return tr
	}

	g.active = &tr
	g.state = Animating
	g.metrics.TransitionsStarted.WithLabelValues(g.id).Inc()
	g.logger.Debug("transition started",
		"transition_id", tr.ID,
		"start", tr.Start,
		"target", tr.Target,
		"duration", tr.Duration,
		"generation", tr.Generation,
		"palette", g.palette.Name,
	)

	g.scheduler.ScheduleFrame(g.frame(tr))
	return tr
}

// frame returns the callback that renders tr at the frame time and schedules
// the next frame until tr completes. A callback from a superseded generation
// drops itself.
func (g *Gauge) frame(tr Transition) FrameFunc {
	return func(now time.Time) {
		g.mu.Lock()
		defer g.mu.Unlock()

		if tr.Generation != g.generation {
			g.metrics.StaleFrames.WithLabelValues(g.id).Inc()
			return
		}

		g.render(tr.ValueAt(now))

		if tr.Done(now) {
			g.active = nil
			g.state = Idle
			g.metrics.TransitionsCompleted.WithLabelValues(g.id).Inc()
			g.logger.Debug("transition completed", "transition_id", tr.ID, "target", tr.Target)
			return
		}
		g.scheduler.ScheduleFrame(g.frame(tr))
	}
}

// render draws v. Callers hold g.mu.
func (g *Gauge) render(v float64) {
	y, h := g.geometry.FillGeometry(v)
	g.renderer.SetFillGeometry(y, h)
	g.displayed = v
	g.shown = true
	g.metrics.FramesRendered.WithLabelValues(g.id).Inc()
}

// Snapshot returns the gauge's current state.
func (g *Gauge) Snapshot() GaugeSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := GaugeSnapshot{
		ID:         g.id,
		Displayed:  g.displayed,
		Palette:    g.palette,
		State:      g.state,
		Generation: g.generation,
		Shown:      g.shown,
	}
	if g.shown {
		s.Y, s.Height = g.geometry.FillGeometry(g.displayed)
	} else {
		s.Y, s.Height = g.geometry.TubeBottom(), 0
	}
	if g.previous != nil {
		target := *g.previous
		s.Target = &target
	}
	if g.active != nil {
		tr := *g.active
		s.Transition = &tr
	}
	return s
}

// Idle reports whether the gauge has no transition in flight.
func (g *Gauge) Idle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == Idle
}
