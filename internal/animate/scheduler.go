package animate

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameFunc is a callback run once on the next frame, given the frame time.
type FrameFunc func(now time.Time)

// Scheduler queues a callback to run before the next repaint.
type Scheduler interface {
	ScheduleFrame(fn FrameFunc)
}

// FrameLoop is a cooperative, single-goroutine Scheduler. Callbacks queued
// with ScheduleFrame run on the next Step; callbacks queued while a step is
// running wait for the following step. All callbacks of one step see the same
// frame time.
type FrameLoop struct {
	clock    clockwork.Clock
	interval time.Duration
	metrics  *observability.Metrics

	mu      sync.Mutex
	pending []FrameFunc
}

// NewFrameLoop creates a loop ticking every interval on clock.
func NewFrameLoop(clock clockwork.Clock, interval time.Duration, metrics *observability.Metrics) *FrameLoop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameLoop{
		clock:    clock,
		interval: interval,
		metrics:  metrics,
	}
}

// ScheduleFrame implements Scheduler.
func (l *FrameLoop) ScheduleFrame(fn FrameFunc) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
}

// Pending reports the number of callbacks waiting for the next frame.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Step runs every callback queued before the call and returns how many ran.
func (l *FrameLoop) Step(now time.Time) int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}

	start := time.Now()
	for _, fn := range batch {
		fn(now)
	}
	if l.metrics != nil {
		l.metrics.FrameStepDuration.Observe(time.Since(start).Seconds())
	}
	return len(batch)
}

// Drain steps the loop, advancing the frame time by the interval each step,
// until no callbacks remain or maxSteps is reached. It returns the final
// frame time. Used to settle gauges synchronously, e.g. in tools and tests.
func (l *FrameLoop) Drain(from time.Time, maxSteps int) time.Time {
	now := from
	for i := 0; i < maxSteps && l.Pending() > 0; i++ {
		l.Step(now)
		now = now.Add(l.interval)
	}
	return now
}

// Run steps the loop on every tick until ctx is cancelled.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			l.Step(l.clock.Now())
		}
	}
}
