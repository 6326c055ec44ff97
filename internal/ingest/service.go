package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"showapi/internal/metrics"
	"showapi/internal/show"
)

// ErrRunInProgress is returned by Run while another cycle is active.
var ErrRunInProgress = errors.New("ingest run already in progress")

// Service runs ingest cycles: a crawl and, once the end of the index is
// reached, a cast backfill in the same cycle.
type Service struct {
	crawler    *Crawler
	backfiller *Backfiller
	runs       Repository
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
	running    atomic.Bool
	inflight   sync.WaitGroup
	now        func() time.Time
}

func NewService(client CatalogClient, shows show.Repository, runs Repository, pacer Pacer, logger logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		crawler:    NewCrawler(client, shows, pacer, logger, m),
		backfiller: NewBackfiller(client, shows, pacer, logger, m),
		runs:       runs,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// Run executes one cycle. Only store failures are returned; upstream
// failures end the cycle early with status STOPPED.
func (s *Service) Run(ctx context.Context) (err error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("ingest run skipped, previous run still active")
		return ErrRunInProgress
	}
	s.inflight.Add(1)
	defer s.inflight.Done()
	defer s.running.Store(false)

	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: s.now(),
		Status:    StatusRunning,
	}
	log := s.logger.WithField("run_id", run.ID)
	if err := s.runs.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	log.Info("ingest run started")

	defer func() {
		finished := s.now()
		run.FinishedAt = &finished
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
		}
		// The record is written even when ctx was cancelled.
		if saveErr := s.runs.SaveRun(context.WithoutCancel(ctx), run); saveErr != nil {
			log.WithError(saveErr).Error("failed to record run result")
		}
		s.metrics.Runs.WithLabelValues(string(run.Status)).Inc()
		s.metrics.RunDuration.Observe(finished.Sub(run.StartedAt).Seconds())
		s.metrics.LastRunTime.Set(float64(finished.Unix()))
		log.WithFields(logrus.Fields{
			"status":         run.Status,
			"pages_fetched":  run.PagesFetched,
			"shows_appended": run.ShowsAppended,
			"casts_fetched":  run.CastsFetched,
			"casts_failed":   run.CastsFailed,
		}).Info("ingest run finished")
	}()

	crawl, err := s.crawler.Crawl(ctx)
	run.StartPage = crawl.StartPage
	run.PagesFetched = crawl.PagesFetched
	run.ShowsAppended = crawl.ShowsAppended
	run.EndOfPages = crawl.ReachedEnd
	if err != nil {
		return err
	}
	if !crawl.ReachedEnd {
		run.Status = StatusStopped
		return nil
	}

	backfill, err := s.backfiller.Backfill(ctx)
	run.CastsFetched = backfill.Fetched
	run.CastsFailed = backfill.Failed
	if err != nil {
		return err
	}
	if backfill.Interrupted {
		run.Status = StatusStopped
		return nil
	}
	run.Status = StatusCompleted
	return nil
}

// Running reports whether a cycle is active.
func (s *Service) Running() bool {
	return s.running.Load()
}

// Wait blocks until the active cycle, if any, has recorded its result.
// Callers cancel the cycle's context first to make it return promptly.
func (s *Service) Wait() {
	s.inflight.Wait()
}

func (s *Service) LatestRun(ctx context.Context) (*Run, error) {
	return s.runs.LatestRun(ctx)
}
