//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/thermo-gauge-service/internal/adapter/csvsource"
	"github.com/couchcryptid/thermo-gauge-service/internal/adapter/kafka"
	"github.com/couchcryptid/thermo-gauge-service/internal/animate"
	"github.com/couchcryptid/thermo-gauge-service/internal/config"
	"github.com/couchcryptid/thermo-gauge-service/internal/dashboard"
	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
	"github.com/couchcryptid/thermo-gauge-service/internal/render"
)

const testFrameTopic = "test-gauge-frames"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestFrameStreamEndToEnd drives a snap then an animated transition through
// the dashboard and reads the mirrored frame updates back from Kafka.
func TestFrameStreamEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testFrameTopic)

	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaFrameTopic: testFrameTopic,
	}

	clock := clockwork.NewFakeClockAt(time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC))
	metrics := observability.NewMetricsForTesting()
	geometry := gauge.DefaultConfig()
	loop := animate.NewFrameLoop(clock, animate.DefaultFrameInterval, metrics)
	animator, err := animate.NewAnimator(geometry, loop, clock, animate.DefaultOptions(), discardLogger(), metrics)
	require.NoError(t, err)

	publisher := kafka.NewFramePublisher(kafka.NewKafkaWriter(cfg), 4096, clock, discardLogger(), metrics)
	for _, id := range []string{animate.MinGauge, animate.MaxGauge} {
		_, err := animator.AddGauge(id, render.Fanout{render.NewSVGGauge(id, geometry), publisher.ForGauge(id)})
		require.NoError(t, err)
	}

	src := csvsource.NewFileSource("../adapter/csvsource/testdata/sample.csv", discardLogger(), metrics)
	svc := dashboard.NewService(src, animator, discardLogger(), metrics)
	require.NoError(t, svc.Reload(ctx))

	// 2020-01-01: 4.4°C / -6.7°C, 2020-01-06: 26.7°C / 14.4°C.
	_, err = svc.Select(ctx, "2020-01-01")
	require.NoError(t, err)
	_, err = svc.Select(ctx, "2020-01-06")
	require.NoError(t, err)
	loop.Drain(clock.Now().Add(animate.DefaultFrameInterval), 1000)
	require.True(t, animator.Settled())

	pubCtx, stopPublisher := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- publisher.Run(pubCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testFrameTopic,
		GroupID:     fmt.Sprintf("test-frames-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byGauge := map[string][]kafka.FrameUpdate{}
	for len(byGauge[animate.MaxGauge]) == 0 || last(byGauge[animate.MaxGauge]).Kind != kafka.KindFill ||
		!near(last(byGauge[animate.MaxGauge]).Y, fillY(geometry, 80.06)) {
		readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		cancelRead()
		require.NoError(t, err, "read frame update")

		var u kafka.FrameUpdate
		require.NoError(t, json.Unmarshal(msg.Value, &u))
		assert.Equal(t, u.Gauge, string(msg.Key))
		byGauge[u.Gauge] = append(byGauge[u.Gauge], u)
	}

	stopPublisher()
	require.NoError(t, <-done)

	maxUpdates := byGauge[animate.MaxGauge]
	// Snap: palette then one fill at the target.
	require.GreaterOrEqual(t, len(maxUpdates), 4)
	assert.Equal(t, kafka.KindPalette, maxUpdates[0].Kind)
	assert.Equal(t, "hot", maxUpdates[0].Palette)
	assert.Equal(t, kafka.KindFill, maxUpdates[1].Kind)
	assert.InDelta(t, fillY(geometry, 39.92), maxUpdates[1].Y, 1e-6)
	// Transition: palette switch first, then fills moving up the tube.
	assert.Equal(t, kafka.KindPalette, maxUpdates[2].Kind)
	assert.Equal(t, kafka.KindFill, maxUpdates[3].Kind)
	assert.Less(t, maxUpdates[3].Y, maxUpdates[1].Y)
	for i := 4; i < len(maxUpdates); i++ {
		assert.Equal(t, kafka.KindFill, maxUpdates[i].Kind)
		assert.LessOrEqual(t, maxUpdates[i].Y, maxUpdates[i-1].Y+1e-9, "fill only rises towards a warmer target")
		assert.Greater(t, maxUpdates[i].Seq, maxUpdates[i-1].Seq)
	}
}

func fillY(cfg gauge.Config, f float64) float64 {
	y, _ := cfg.FillGeometry(f)
	return y
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func last(us []kafka.FrameUpdate) kafka.FrameUpdate {
	return us[len(us)-1]
}
