package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"showapi/internal/api"
	"showapi/internal/config"
	"showapi/internal/ingest"
	"showapi/internal/kvstore"
	"showapi/internal/logging"
	"showapi/internal/metrics"
	"showapi/internal/platform/tvmaze"
	"showapi/internal/ratelimit"
	"showapi/internal/scheduler"
	"showapi/internal/show"
)

const lockFileName = "showapi.lock"

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logrus.Fatalf("cannot build logger: %v", err)
	}

	if cfg.StoreDriver == config.DriverSQLite {
		lock, err := lockDataDir(cfg.DataDir)
		if err != nil {
			logger.Fatalf("cannot lock data dir: %v", err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	store := mustOpenStore(cfg, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close store")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	limiter, err := ratelimit.New(map[ratelimit.Class]ratelimit.Budget{
		ratelimit.ClassCatalog:    {Timespan: cfg.RateLimitTimespan, MaxCalls: cfg.RateLimitShowsCalls},
		ratelimit.ClassEnrichment: {Timespan: cfg.RateLimitTimespan, MaxCalls: cfg.RateLimitCastCalls},
	})
	if err != nil {
		logger.Fatalf("invalid rate limits: %v", err)
	}

	showRepository := show.NewKVRepository(store, cfg.ReadCacheTTL)
	runRepository := ingest.NewKVRepository(store)
	client := tvmaze.NewClient(cfg.TVMazeBaseURL, cfg.TVMazeUserAgent, cfg.UpstreamTimeout, cfg.UpstreamMaxRetries)
	ingestService := ingest.NewService(client, showRepository, runRepository, limiter, logger, m)

	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()

	sched, err := scheduler.New(cfg.PollInterval, ingestService.Run, ingest.ErrRunInProgress, logger)
	if err != nil {
		logger.Fatalf("cannot create scheduler: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Store:    store,
		Shows:    show.NewHTTPHandler(show.NewService(showRepository)),
		Ingest:   ingest.NewHTTPHandler(runCtx, ingestService),
		Gatherer: reg,
		Logger:   logger,
	})

	httpServer := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	cancelRuns()
	if err := sched.Stop(); err != nil {
		logger.WithError(err).Warn("scheduler shutdown")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}
	// A triggered cycle may outlive the handler that started it.
	ingestService.Wait()
	logger.Info("server stopped")
}

// lockDataDir takes an exclusive lock so only one process uses the SQLite
// store in dir.
func lockDataDir(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another instance is using %s", dir)
	}
	return lock, nil
}

func mustOpenStore(cfg config.Config, logger logrus.FieldLogger) kvstore.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		target := cfg.DataDir
		if cfg.StoreDriver == config.DriverPostgres {
			target = redactDSN(cfg.DBDSN)
		}
		logger.Fatalf("cannot open %s store (%s): %v", cfg.StoreDriver, target, err)
	}
	logger.WithField("driver", cfg.StoreDriver).Info("store connection OK")
	return store
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
