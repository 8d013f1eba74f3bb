package csvsource

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

// FileSource loads the dataset from a CSV file on every call, recording row
// outcomes in metrics.
type FileSource struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFileSource creates a source reading path.
func NewFileSource(path string, logger *slog.Logger, metrics *observability.Metrics) *FileSource {
	return &FileSource{path: path, logger: logger, metrics: metrics}
}

// Load reads the file. Rows dropped for missing or malformed values are
// counted, not returned as errors.
func (s *FileSource) Load(ctx context.Context) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, stats, err := Load(s.path)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordsLoaded.Add(float64(stats.Loaded))
	s.metrics.RecordsSkipped.WithLabelValues("missing").Add(float64(stats.Missing))
	s.metrics.RecordsSkipped.WithLabelValues("malformed").Add(float64(stats.Malformed))

	s.logger.Info("dataset loaded",
		"path", s.path,
		"rows", stats.Rows,
		"records", ds.Len(),
		"missing", stats.Missing,
		"malformed", stats.Malformed,
	)
	return ds, nil
}
