package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/synthetic_weather.csv", cfg.DataPath)
	assert.Zero(t, cfg.DataReloadInterval)
	assert.Equal(t, 1400*time.Millisecond, cfg.TransitionDuration)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.False(t, cfg.RestartFromDisplayed)
	assert.Equal(t, 256, cfg.RenderCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "gauge-frames", cfg.KafkaFrameTopic)
	assert.Equal(t, 1024, cfg.FrameBufferSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_PATH", "/srv/weather.csv")
	t.Setenv("DATA_RELOAD_INTERVAL", "5m")
	t.Setenv("TRANSITION_DURATION", "2s")
	t.Setenv("FRAME_INTERVAL", "33ms")
	t.Setenv("RESTART_FROM_DISPLAYED", "true")
	t.Setenv("RENDER_CACHE_SIZE", "0")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_FRAME_TOPIC", "frames")
	t.Setenv("FRAME_BUFFER_SIZE", "64")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/srv/weather.csv", cfg.DataPath)
	assert.Equal(t, 5*time.Minute, cfg.DataReloadInterval)
	assert.Equal(t, 2*time.Second, cfg.TransitionDuration)
	assert.Equal(t, 33*time.Millisecond, cfg.FrameInterval)
	assert.True(t, cfg.RestartFromDisplayed)
	assert.Zero(t, cfg.RenderCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "frames", cfg.KafkaFrameTopic)
	assert.Equal(t, 64, cfg.FrameBufferSize)
}

func TestLoad_ZeroTransitionDurationAllowed(t *testing.T) {
	t.Setenv("TRANSITION_DURATION", "0s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.TransitionDuration)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"DATA_RELOAD_INTERVAL", "soon"},
		{"DATA_RELOAD_INTERVAL", "-1m"},
		{"TRANSITION_DURATION", "fast"},
		{"TRANSITION_DURATION", "-5ms"},
		{"TRANSITION_DURATION", "2m"},
		{"FRAME_INTERVAL", "bad"},
		{"FRAME_INTERVAL", "0s"},
		{"FRAME_INTERVAL", "5s"},
		{"RESTART_FROM_DISPLAYED", "maybe"},
		{"RENDER_CACHE_SIZE", "lots"},
		{"RENDER_CACHE_SIZE", "-1"},
		{"FRAME_BUFFER_SIZE", "0"},
		{"KAFKA_ENABLED", "yes please"},
		{"LOG_LEVEL", "verbose"},
		{"LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_EmptyDataPath(t *testing.T) {
	t.Setenv("DATA_PATH", "")
	cfg, err := Load()
	require.NoError(t, err, "empty variable falls back to the default")
	assert.NotEmpty(t, cfg.DataPath)
}

func TestLoad_KafkaEnabledWithoutTopic(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_FRAME_TOPIC", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_FRAME_TOPIC")
}
