// Package scheduler runs the ingest cycle on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// RunFunc is one ingest cycle.
type RunFunc func(ctx context.Context) error

// Scheduler invokes a RunFunc immediately on Start and then every interval.
// A run that is still going when the next one is due pushes it back.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    logrus.FieldLogger
	ctx       context.Context
	cancel    context.CancelFunc
}

// New registers run as a duration job. Errors returned by run are logged;
// skipped is matched with errors.Is and logged at debug level.
func New(interval time.Duration, run RunFunc, skipped error, logger logrus.FieldLogger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sch := &Scheduler{scheduler: s, logger: logger, ctx: ctx, cancel: cancel}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			err := run(sch.ctx)
			switch {
			case err == nil:
			case skipped != nil && errors.Is(err, skipped):
				logger.WithError(err).Debug("scheduled ingest skipped")
			default:
				logger.WithError(err).Error("scheduled ingest failed")
			}
		}),
		gocron.WithName("ingest"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to register ingest job: %w", err)
	}
	return sch, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")
	s.scheduler.Start()
}

// Stop cancels a running cycle and waits for it to return.
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping scheduler")
	s.cancel()
	return s.scheduler.Shutdown()
}
