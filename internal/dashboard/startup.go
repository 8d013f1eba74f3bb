package dashboard

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Startup backoff bounds.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// LoadInitial calls Reload until it succeeds, attempts are exhausted, or ctx
// is cancelled, doubling the wait between attempts. It returns the last
// error. The data file may be mounted shortly after the process starts.
func (s *Service) LoadInitial(ctx context.Context, clock clockwork.Clock, attempts int) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = s.Reload(ctx); err == nil {
			return nil
		}
		s.logger.Warn("initial dataset load failed", "attempt", attempt, "error", err)
		if attempt == attempts {
			break
		}
		if !sleepWithContext(ctx, clock, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
	return err
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
