package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"showapi/internal/metrics"
	"showapi/internal/platform/tvmaze"
	"showapi/internal/ratelimit"
	"showapi/internal/show"
)

type CatalogClient interface {
	ListShows(ctx context.Context, page int) ([]tvmaze.ShowRecord, error)
	GetCast(ctx context.Context, showID int) ([]tvmaze.CastRecord, error)
}

// Pacer spaces upstream calls per class.
type Pacer interface {
	Wait(ctx context.Context, class ratelimit.Class) error
}

type CrawlResult struct {
	StartPage     int
	PagesFetched  int
	ShowsAppended int
	// ReachedEnd is set only when upstream reported the end of the index.
	ReachedEnd bool
}

// Crawler walks the paged show index from the page holding the cursor and
// appends every page to the collection.
type Crawler struct {
	client  CatalogClient
	shows   show.Repository
	pacer   Pacer
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewCrawler(client CatalogClient, shows show.Repository, pacer Pacer, logger logrus.FieldLogger, m *metrics.Metrics) *Crawler {
	return &Crawler{client: client, shows: shows, pacer: pacer, logger: logger, metrics: m}
}

// StartPage maps the last seen id to the index page that contains it.
func StartPage(lastSeenID int) int {
	return lastSeenID/tvmaze.PageWidth + 1
}

// Crawl fetches pages until the end of the index or the first failure.
// Fetch failures end the crawl without an error; only store failures are
// returned.
func (c *Crawler) Crawl(ctx context.Context) (CrawlResult, error) {
	lastSeen, err := c.shows.LastSeenID(ctx)
	if err != nil {
		return CrawlResult{}, fmt.Errorf("read cursor: %w", err)
	}
	res := CrawlResult{StartPage: StartPage(lastSeen)}

	for page := res.StartPage; ; page++ {
		log := c.logger.WithField("page", page)
		if ctx.Err() != nil {
			log.Info("crawl cancelled")
			return res, nil
		}

		records, err := c.client.ListShows(ctx, page)
		if errors.Is(err, tvmaze.ErrEndOfPages) {
			log.Info("reached end of show index")
			res.ReachedEnd = true
			return res, nil
		}
		if err != nil {
			log.WithError(err).Error("fetch show page failed, stopping crawl")
			return res, nil
		}
		if len(records) == 0 {
			log.Error("show page is empty, stopping crawl")
			return res, nil
		}

		shows := make([]show.Show, len(records))
		for i, rec := range records {
			shows[i] = show.Show{ID: rec.ID, Name: rec.Name}
		}

		if err := c.shows.SetLastSeenID(ctx, records[len(records)-1].ID); err != nil {
			return res, fmt.Errorf("persist cursor for page %d: %w", page, err)
		}
		if err := c.shows.AppendShows(ctx, shows); err != nil {
			return res, fmt.Errorf("append page %d: %w", page, err)
		}
		res.PagesFetched++
		res.ShowsAppended += len(shows)
		c.metrics.PagesFetched.Inc()
		c.metrics.ShowsAppended.Add(float64(len(shows)))
		log.WithField("count", len(shows)).Info("stored show page")

		if err := c.pacer.Wait(ctx, ratelimit.ClassCatalog); err != nil {
			log.WithError(err).Info("crawl interrupted while waiting")
			return res, nil
		}
	}
}
