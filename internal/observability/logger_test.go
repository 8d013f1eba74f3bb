package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("transition started", "gauge", "max")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "transition started", line["msg"])
	assert.Equal(t, "max", line["gauge"])
	assert.Equal(t, "thermo-gauge", line["app"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("frame", "gauge", "min")
	assert.Contains(t, buf.String(), "frame")
	assert.Contains(t, buf.String(), "min")
}

func TestNewMetricsForTesting_Collectors(t *testing.T) {
	m := NewMetricsForTesting()
	assert.Len(t, m.collectors(), 15)
	m.TransitionsStarted.WithLabelValues("min").Inc()
	m.RenderCache.WithLabelValues("hit").Inc()
}
