// Package metrics holds the Prometheus collectors for the ingest pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application.
type Metrics struct {
	// Crawl
	PagesFetched  prometheus.Counter
	ShowsAppended prometheus.Counter

	// Backfill
	CastsFetched prometheus.Counter
	CastsFailed  prometheus.Counter

	// Runs by final status
	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
	LastRunTime prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PagesFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "showapi_catalog_pages_fetched_total",
			Help: "Total number of catalog index pages fetched and stored",
		}),
		ShowsAppended: f.NewCounter(prometheus.CounterOpts{
			Name: "showapi_shows_appended_total",
			Help: "Total number of shows appended to the collection",
		}),
		CastsFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "showapi_casts_fetched_total",
			Help: "Total number of show casts fetched and attached",
		}),
		CastsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "showapi_casts_failed_total",
			Help: "Total number of cast fetches that failed and will be retried",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "showapi_ingest_runs_total",
			Help: "Total number of ingest runs by final status",
		}, []string{"status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "showapi_ingest_run_duration_seconds",
			Help:    "Ingest run duration in seconds",
			Buckets: []float64{1, 10, 60, 300, 900, 1800, 3600, 7200},
		}),
		LastRunTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "showapi_ingest_last_run_timestamp_seconds",
			Help: "Unix time the latest ingest run finished",
		}),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
