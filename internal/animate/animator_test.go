package animate

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

func newTestAnimator(t *testing.T) (*Animator, *FrameLoop, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(t0)
	metrics := observability.NewMetricsForTesting()
	loop := NewFrameLoop(clock, DefaultFrameInterval, metrics)
	a, err := NewAnimator(gauge.DefaultConfig(), loop, clock, DefaultOptions(), discardLogger(), metrics)
	require.NoError(t, err)
	return a, loop, clock
}

func TestNewAnimator_RejectsBadGeometry(t *testing.T) {
	cfg := gauge.DefaultConfig()
	cfg.FMax = cfg.FMin
	_, err := NewAnimator(cfg, nil, clockwork.NewFakeClock(), DefaultOptions(), discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gauge geometry")
}

func TestNewAnimator_RejectsNegativeDuration(t *testing.T) {
	_, err := NewAnimator(gauge.DefaultConfig(), nil, clockwork.NewFakeClock(), Options{Duration: -time.Second}, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
}

func TestAnimator_AddGauge(t *testing.T) {
	a, _, _ := newTestAnimator(t)

	_, err := a.AddGauge(MinGauge, &recordingRenderer{})
	require.NoError(t, err)
	_, err = a.AddGauge(MinGauge, &recordingRenderer{})
	require.Error(t, err)

	g, ok := a.Gauge(MinGauge)
	require.True(t, ok)
	assert.Equal(t, MinGauge, g.ID())
}

func TestAnimator_StartTransitionUnknownGauge(t *testing.T) {
	a, _, _ := newTestAnimator(t)
	_, err := a.StartTransition("avg", 50)
	require.ErrorIs(t, err, ErrUnknownGauge)
}

func TestAnimator_FirstSelectionScenario(t *testing.T) {
	a, loop, _ := newTestAnimator(t)
	minR, maxR := &recordingRenderer{}, &recordingRenderer{}
	_, err := a.AddGauge(MinGauge, minR)
	require.NoError(t, err)
	_, err = a.AddGauge(MaxGauge, maxR)
	require.NoError(t, err)

	_, err = a.StartTransition(MinGauge, 20)
	require.NoError(t, err)
	_, err = a.StartTransition(MaxGauge, 40)
	require.NoError(t, err)

	assert.Equal(t, 0, loop.Pending())
	assert.True(t, a.Settled())

	snaps := a.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, MinGauge, snaps[0].ID)
	assert.Equal(t, 20.0, snaps[0].Displayed)
	assert.Equal(t, "cold", snaps[0].Palette.Name)
	assert.Equal(t, MaxGauge, snaps[1].ID)
	assert.Equal(t, 40.0, snaps[1].Displayed)
	assert.Equal(t, "hot", snaps[1].Palette.Name)
}

func TestAnimator_GaugesAnimateIndependently(t *testing.T) {
	a, loop, _ := newTestAnimator(t)
	_, _ = a.AddGauge(MinGauge, &recordingRenderer{})
	_, _ = a.AddGauge(MaxGauge, &recordingRenderer{})

	_, _ = a.StartTransition(MinGauge, 20)
	_, _ = a.StartTransition(MaxGauge, 40)
	_, _ = a.StartTransition(MinGauge, 30)
	_, _ = a.StartTransition(MaxGauge, 80)
	assert.False(t, a.Settled())

	loop.Step(t0.Add(700 * time.Millisecond))
	snaps := a.Snapshots()
	assert.InDelta(t, 25.0, snaps[0].Displayed, 1e-9)
	assert.InDelta(t, 60.0, snaps[1].Displayed, 1e-9)

	loop.Drain(t0.Add(716*time.Millisecond), 1000)
	assert.True(t, a.Settled())
	snaps = a.Snapshots()
	assert.Equal(t, 30.0, snaps[0].Displayed)
	assert.Equal(t, 80.0, snaps[1].Displayed)
}

func TestAnimator_Select(t *testing.T) {
	a, loop, clock := newTestAnimator(t)
	minR, maxR := &recordingRenderer{}, &recordingRenderer{}
	_, err := a.AddGauge(MinGauge, minR)
	require.NoError(t, err)
	_, err = a.AddGauge(MaxGauge, maxR)
	require.NoError(t, err)

	require.NoError(t, a.Select(20, 40))
	require.NoError(t, a.Select(50, 60))
	assert.False(t, a.Settled())

	loop.Drain(clock.Now().Add(DefaultDuration), 10)
	assert.True(t, a.Settled())

	geo := gauge.DefaultConfig()
	wantMinY, _ := geo.FillGeometry(50)
	wantMaxY, _ := geo.FillGeometry(60)
	assert.InDelta(t, wantMinY, minR.lastFill().Y, 1e-9)
	assert.InDelta(t, wantMaxY, maxR.lastFill().Y, 1e-9)
}

func TestAnimator_SelectWithoutGauges(t *testing.T) {
	a, _, _ := newTestAnimator(t)
	require.ErrorIs(t, a.Select(20, 40), ErrUnknownGauge)
}
