package ingest

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"showapi/internal/metrics"
	"showapi/internal/platform/tvmaze"
	"showapi/internal/ratelimit"
	"showapi/internal/show"
)

type BackfillResult struct {
	Candidates  int
	Fetched     int
	Failed      int
	Interrupted bool
}

// Backfiller attaches casts to every stored show that has none yet.
type Backfiller struct {
	client  CatalogClient
	shows   show.Repository
	pacer   Pacer
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewBackfiller(client CatalogClient, shows show.Repository, pacer Pacer, logger logrus.FieldLogger, m *metrics.Metrics) *Backfiller {
	return &Backfiller{client: client, shows: shows, pacer: pacer, logger: logger, metrics: m}
}

// Backfill works on a single snapshot of the collection and writes the whole
// snapshot back after every candidate, successful or not.
func (b *Backfiller) Backfill(ctx context.Context) (BackfillResult, error) {
	var res BackfillResult

	snapshot, err := b.shows.LoadShows(ctx)
	if err != nil {
		return res, fmt.Errorf("load shows: %w", err)
	}

	for i := range snapshot {
		if snapshot[i].HasCast() {
			continue
		}
		if ctx.Err() != nil {
			res.Interrupted = true
			return res, nil
		}
		res.Candidates++
		log := b.logger.WithField("show_id", snapshot[i].ID)

		records, err := b.client.GetCast(ctx, snapshot[i].ID)
		if err != nil {
			res.Failed++
			b.metrics.CastsFailed.Inc()
			log.WithError(err).Warn("fetch cast failed, will retry next cycle")
		} else {
			snapshot[i].Cast = castMembers(records)
			res.Fetched++
			b.metrics.CastsFetched.Inc()
			log.WithField("count", len(records)).Debug("attached cast")
		}

		if err := b.shows.SaveShows(ctx, snapshot); err != nil {
			return res, fmt.Errorf("save shows after show %d: %w", snapshot[i].ID, err)
		}

		if err := b.pacer.Wait(ctx, ratelimit.ClassEnrichment); err != nil {
			log.WithError(err).Info("backfill interrupted while waiting")
			res.Interrupted = true
			return res, nil
		}
	}
	return res, nil
}

func castMembers(records []tvmaze.CastRecord) []show.CastMember {
	cast := make([]show.CastMember, 0, len(records))
	for _, rec := range records {
		cast = append(cast, show.CastMember{
			ID:       rec.Person.ID,
			Name:     rec.Person.Name,
			Birthday: rec.Person.Birthday,
		})
	}
	show.SortCastByBirthday(cast)
	return cast
}
