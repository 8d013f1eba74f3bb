package animate

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is the length of a value transition.
const DefaultDuration = 1400 * time.Millisecond

// Transition is one animation job from Start to Target.
type Transition struct {
	ID         string        `json:"id"`
	Gauge      string        `json:"gauge"`
	Start      float64       `json:"start"`
	Target     float64       `json:"target"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Generation uint64        `json:"generation"`
}

// NewTransition plans a job for gauge. A nil start means the gauge has never
// shown a value, in which case the job starts at its own target and does not
// visibly move.
func NewTransition(gaugeID string, start *float64, target float64, startedAt time.Time, duration time.Duration) Transition {
	from := target
	if start != nil {
		from = *start
	}
	return Transition{
		ID:        uuid.NewString(),
		Gauge:     gaugeID,
		Start:     from,
		Target:    target,
		StartedAt: startedAt,
		Duration:  duration,
	}
}

// Progress returns the linear time fraction in [0, 1] at now.
func (tr Transition) Progress(now time.Time) float64 {
	if tr.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(tr.StartedAt)) / float64(tr.Duration)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// ValueAt returns the displayed value at now.
func (tr Transition) ValueAt(now time.Time) float64 {
	t := tr.Progress(now)
	if t >= 1 {
		return tr.Target
	}
	return Lerp(tr.Start, tr.Target, Ease(t))
}

// Done reports whether the job has reached its target at now.
func (tr Transition) Done(now time.Time) bool {
	return tr.Progress(now) >= 1
}

// Static reports whether the job has nothing to animate.
func (tr Transition) Static() bool {
	return tr.Duration <= 0 || tr.Start == tr.Target
}
