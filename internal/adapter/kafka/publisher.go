// Package kafka streams gauge frame updates to a Kafka topic so remote
// displays can mirror the dashboard's animation.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/couchcryptid/thermo-gauge-service/internal/animate"
	"github.com/couchcryptid/thermo-gauge-service/internal/config"
	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

// Update kinds.
const (
	KindFill    = "fill"
	KindPalette = "palette"
)

const maxBatch = 64

// FrameUpdate is one renderer call on one gauge.
type FrameUpdate struct {
	Gauge   string    `json:"gauge"`
	Seq     uint64    `json:"seq"`
	Kind    string    `json:"kind"`
	Y       float64   `json:"y"`
	Height  float64   `json:"height"`
	Palette string    `json:"palette,omitempty"`
	At      time.Time `json:"at"`
}

// MessageWriter is the subset of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewKafkaWriter creates a producer for the configured frame topic.
func NewKafkaWriter(cfg *config.Config) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaFrameTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// FramePublisher queues frame updates from the animation thread and writes
// them to Kafka from its own goroutine. Enqueueing never blocks: when the
// buffer is full, or the circuit breaker is open, updates are dropped and
// counted.
type FramePublisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	updates chan FrameUpdate
	seq     atomic.Uint64
}

// NewFramePublisher creates a publisher buffering up to bufferSize updates.
func NewFramePublisher(w MessageWriter, bufferSize int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *FramePublisher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	logger = logger.With("component", "frame-publisher")
	p := &FramePublisher{
		writer:  w,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		updates: make(chan FrameUpdate, bufferSize),
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-frames",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return p
}

// ForGauge returns a renderer that publishes updates for gauge id.
func (p *FramePublisher) ForGauge(id string) animate.Renderable {
	return &gaugeSink{publisher: p, gauge: id}
}

// Pending reports the number of queued updates.
func (p *FramePublisher) Pending() int {
	return len(p.updates)
}

func (p *FramePublisher) enqueue(u FrameUpdate) {
	u.Seq = p.seq.Add(1)
	u.At = p.clock.Now()
	select {
	case p.updates <- u:
	default:
		p.metrics.FramesDropped.Inc()
	}
}

// Run writes queued updates until ctx is cancelled, then flushes what is
// still buffered and closes the writer.
func (p *FramePublisher) Run(ctx context.Context) error {
	batch := make([]FrameUpdate, 0, maxBatch)
	for {
		select {
		case <-ctx.Done():
			p.flushRemaining(batch)
			return p.writer.Close()
		case u := <-p.updates:
			batch = append(batch[:0], u)
			batch = p.collect(batch)
			p.publish(ctx, batch)
		}
	}
}

// collect appends already-queued updates to batch without waiting.
func (p *FramePublisher) collect(batch []FrameUpdate) []FrameUpdate {
	for len(batch) < maxBatch {
		select {
		case u := <-p.updates:
			batch = append(batch, u)
		default:
			return batch
		}
	}
	return batch
}

func (p *FramePublisher) flushRemaining(batch []FrameUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		batch = p.collect(batch[:0])
		if len(batch) == 0 {
			return
		}
		p.publish(ctx, batch)
	}
}

func (p *FramePublisher) publish(ctx context.Context, batch []FrameUpdate) {
	msgs := make([]kafkago.Message, 0, len(batch))
	for _, u := range batch {
		msg, err := serializeToMessage(u)
		if err != nil {
			p.metrics.FramePublishErrors.Inc()
			p.logger.Error("serialize frame update", "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, msgs...)
	})
	if err != nil {
		p.metrics.FramePublishErrors.Add(float64(len(msgs)))
		if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.logger.Error("publish frame updates", "count", len(msgs), "error", err)
		}
		return
	}
	p.metrics.FramesPublished.Add(float64(len(msgs)))
}

// serializeToMessage marshals a FrameUpdate into a Kafka message keyed by
// gauge so each gauge's updates stay ordered within a partition.
func serializeToMessage(u FrameUpdate) (kafkago.Message, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize frame update: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(u.Gauge),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(u.Kind)},
			{Key: "seq", Value: []byte(strconv.FormatUint(u.Seq, 10))},
		},
		Time: u.At,
	}, nil
}

type gaugeSink struct {
	publisher *FramePublisher
	gauge     string
}

func (s *gaugeSink) SetFillGeometry(y, height float64) {
	s.publisher.enqueue(FrameUpdate{Gauge: s.gauge, Kind: KindFill, Y: y, Height: height})
}

func (s *gaugeSink) SetPalette(p gauge.Palette) {
	s.publisher.enqueue(FrameUpdate{Gauge: s.gauge, Kind: KindPalette, Palette: p.Name})
}
