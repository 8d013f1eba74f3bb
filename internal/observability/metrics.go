package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard: dataset loading, selections, transitions, frames, and the
// optional frame stream.
type Metrics struct {
	RecordsLoaded  prometheus.Counter
	RecordsSkipped *prometheus.CounterVec // labels: reason={missing,malformed}
	DatasetRecords prometheus.Gauge
	DatasetReloads *prometheus.CounterVec // labels: outcome={success,error}

	Selections *prometheus.CounterVec // labels: outcome={applied,not_found}

	// Transition metrics, labelled by gauge id.
	TransitionsStarted    *prometheus.CounterVec
	TransitionsSnapped    *prometheus.CounterVec
	TransitionsSuperseded *prometheus.CounterVec
	TransitionsCompleted  *prometheus.CounterVec
	FramesRendered        *prometheus.CounterVec
	StaleFrames           *prometheus.CounterVec
	FrameStepDuration     prometheus.Histogram

	// Frame stream metrics.
	FramesPublished    prometheus.Counter
	FramePublishErrors prometheus.Counter
	FramesDropped      prometheus.Counter

	// Render cache metrics.
	RenderCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	gaugeLabel := []string{"gauge"}
	return &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "records_loaded_total",
			Help:      "Total daily records accepted from the source CSV.",
		}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "records_skipped_total",
			Help:      "Source rows discarded, by reason.",
		}, []string{"reason"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thermo",
			Name:      "dataset_records",
			Help:      "Number of distinct dates in the active dataset.",
		}),
		DatasetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "dataset_reloads_total",
			Help:      "Dataset reload attempts by outcome.",
		}, []string{"outcome"}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "selections_total",
			Help:      "Date selections by outcome.",
		}, []string{"outcome"}),
		TransitionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "transitions_started_total",
			Help:      "Animated transitions started.",
		}, gaugeLabel),
		TransitionsSnapped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "transitions_snapped_total",
			Help:      "Selections applied without animation (first value or zero duration).",
		}, gaugeLabel),
		TransitionsSuperseded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "transitions_superseded_total",
			Help:      "Transitions abandoned because a newer selection arrived.",
		}, gaugeLabel),
		TransitionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "transitions_completed_total",
			Help:      "Transitions that reached their target.",
		}, gaugeLabel),
		FramesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "frames_rendered_total",
			Help:      "Frames that updated a gauge's fill.",
		}, gaugeLabel),
		StaleFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "stale_frames_total",
			Help:      "Frame callbacks dropped because their transition was superseded.",
		}, gaugeLabel),
		FrameStepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "thermo",
			Name:      "frame_step_duration_seconds",
			Help:      "Time spent running one frame's callbacks.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016, 0.05},
		}),
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "frames_published_total",
			Help:      "Frame updates written to the frame stream.",
		}),
		FramePublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "frame_publish_errors_total",
			Help:      "Frame updates that failed to serialize or write to the broker.",
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "frames_dropped_total",
			Help:      "Frame updates discarded because the publish buffer was full.",
		}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermo",
			Name:      "render_cache_total",
			Help:      "Rendered SVG cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RecordsLoaded,
		m.RecordsSkipped,
		m.DatasetRecords,
		m.DatasetReloads,
		m.Selections,
		m.TransitionsStarted,
		m.TransitionsSnapped,
		m.TransitionsSuperseded,
		m.TransitionsCompleted,
		m.FramesRendered,
		m.StaleFrames,
		m.FrameStepDuration,
		m.FramesPublished,
		m.FramePublishErrors,
		m.FramesDropped,
		m.RenderCache,
	}
}
