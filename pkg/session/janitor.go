package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultPurgeSchedule runs the purge at the top of every hour
const DefaultPurgeSchedule = "@hourly"

// Janitor periodically deletes expired sessions
type Janitor struct {
	store  *Store
	cron   *cron.Cron
	logger *zap.Logger
}

// NewJanitor schedules PurgeExpired with a cron expression
func NewJanitor(store *Store, schedule string, logger *zap.Logger) (*Janitor, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		store:  store,
		cron:   cron.New(),
		logger: logger.Named("sessions"),
	}

	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}

	return j, nil
}

// Start begins the schedule in the background
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running purge to finish
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce purges immediately
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	return j.store.PurgeExpired(ctx)
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("failed to purge expired sessions", zap.Error(err))
		return
	}
	if purged > 0 {
		j.logger.Info("purged expired sessions", zap.Int64("count", purged))
	}
}
