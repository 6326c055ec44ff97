// Package api wires the HTTP routes of the read API and the internal job
// endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"showapi/internal/httpx"
	"showapi/internal/ingest"
	"showapi/internal/show"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store    Pinger
	Shows    *show.HTTPHandler
	Ingest   *ingest.HTTPHandler
	Gatherer prometheus.Gatherer
	Logger   logrus.FieldLogger
}

// NewRouter creates the HTTP router with all endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(d.Logger))
	r.Use(httpx.RecoveryMiddleware(d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Get("/shows", d.Shows.List)
	r.Get("/shows/{id}", d.Shows.Get)

	r.Route("/internal/jobs/ingest", func(r chi.Router) {
		r.Post("/", d.Ingest.Trigger)
		r.Get("/latest", d.Ingest.Latest)
	})

	return r
}
