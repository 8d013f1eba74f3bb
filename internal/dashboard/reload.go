package dashboard

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
)

// ReloadJob re-reads the dataset on a fixed interval.
type ReloadJob struct {
	scheduler *gocron.Scheduler
	service   *Service
	interval  time.Duration
	timeout   time.Duration
}

// NewReloadJob creates a job reloading svc every interval.
func NewReloadJob(svc *Service, interval time.Duration) *ReloadJob {
	return &ReloadJob{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   svc,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the reload and starts the scheduler. The first run happens
// one interval after Start. A non-positive interval disables the job.
func (j *ReloadJob) Start() error {
	if j.interval <= 0 {
		j.service.logger.Info("dataset reload disabled")
		return nil
	}

	_, err := j.scheduler.Every(j.interval).WaitForSchedule().SingletonMode().Do(j.run)
	if err != nil {
		return err
	}
	j.scheduler.StartAsync()
	j.service.logger.Info("dataset reload scheduled", "interval", j.interval)
	return nil
}

func (j *ReloadJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.service.Reload(ctx); err != nil {
		j.service.logger.Error("scheduled dataset reload failed", "error", err)
	}
}

// Stop stops the scheduler and cancels future runs.
func (j *ReloadJob) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
