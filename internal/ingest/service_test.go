package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"showapi/internal/kvstore"
	"showapi/internal/logging"
	"showapi/internal/metrics"
	"showapi/internal/platform/tvmaze"
	"showapi/internal/ratelimit"
	"showapi/internal/show"
)

type mockCatalogClient struct {
	mock.Mock

	mu    sync.Mutex
	calls []string
}

func (m *mockCatalogClient) ListShows(ctx context.Context, page int) ([]tvmaze.ShowRecord, error) {
	m.record(fmt.Sprintf("page:%d", page))
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tvmaze.ShowRecord), args.Error(1)
}

func (m *mockCatalogClient) GetCast(ctx context.Context, showID int) ([]tvmaze.CastRecord, error) {
	m.record(fmt.Sprintf("cast:%d", showID))
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tvmaze.CastRecord), args.Error(1)
}

func (m *mockCatalogClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

type recordingPacer struct {
	mu      sync.Mutex
	classes []ratelimit.Class
	err     error
}

func (p *recordingPacer) Wait(_ context.Context, class ratelimit.Class) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.classes = append(p.classes, class)
	return p.err
}

type failingSetStore struct {
	kvstore.Store
}

func (failingSetStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

type fixture struct {
	client *mockCatalogClient
	pacer  *recordingPacer
	shows  *show.KVRepository
	runs   *KVRepository
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client: new(mockCatalogClient),
		pacer:  &recordingPacer{},
		shows:  show.NewKVRepository(kvstore.NewMemory(), 0),
		runs:   NewKVRepository(kvstore.NewMemory()),
	}
	f.svc = NewService(f.client, f.shows, f.runs, f.pacer, logging.Discard(), metrics.NewNop())
	return f
}

func showPage(ids ...int) []tvmaze.ShowRecord {
	records := make([]tvmaze.ShowRecord, len(ids))
	for i, id := range ids {
		records[i] = tvmaze.ShowRecord{ID: id, Name: fmt.Sprintf("Show %d", id)}
	}
	return records
}

func castOf(birthdays ...*string) []tvmaze.CastRecord {
	records := make([]tvmaze.CastRecord, len(birthdays))
	for i, b := range birthdays {
		records[i] = tvmaze.CastRecord{Person: &tvmaze.PersonRecord{ID: i + 1, Name: fmt.Sprintf("Person %d", i+1), Birthday: b}}
	}
	return records
}

func strPtr(s string) *string { return &s }

func TestStartPage(t *testing.T) {
	assert.Equal(t, 1, StartPage(0))
	assert.Equal(t, 1, StartPage(249))
	assert.Equal(t, 2, StartPage(250))
	assert.Equal(t, 3, StartPage(749))
	assert.Equal(t, 4, StartPage(750))
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("resumes from the page holding the cursor", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.shows.SetLastSeenID(ctx, 749))
		f.client.On("ListShows", mock.Anything, 3).Return(nil, tvmaze.ErrEndOfPages)

		require.NoError(t, f.svc.Run(ctx))

		assert.Equal(t, []string{"page:3"}, f.client.calls)
		run, err := f.runs.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, run.StartPage)
		assert.Equal(t, StatusCompleted, run.Status)
	})

	t.Run("crawls to the end then backfills once", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("ListShows", mock.Anything, 1).Return(showPage(1, 2), nil)
		f.client.On("ListShows", mock.Anything, 2).Return(showPage(3), nil)
		f.client.On("ListShows", mock.Anything, 3).Return(nil, tvmaze.ErrEndOfPages)
		f.client.On("GetCast", mock.Anything, 1).Return(castOf(strPtr("1990-05-01"), strPtr("1985-02-02"), nil), nil)
		f.client.On("GetCast", mock.Anything, 2).Return([]tvmaze.CastRecord{}, nil)
		f.client.On("GetCast", mock.Anything, 3).Return(castOf(nil), nil)

		require.NoError(t, f.svc.Run(ctx))

		assert.Equal(t, []string{"page:1", "page:2", "page:3", "cast:1", "cast:2", "cast:3"}, f.client.calls)
		assert.Equal(t, []ratelimit.Class{
			ratelimit.ClassCatalog, ratelimit.ClassCatalog,
			ratelimit.ClassEnrichment, ratelimit.ClassEnrichment, ratelimit.ClassEnrichment,
		}, f.pacer.classes)

		lastSeen, err := f.shows.LastSeenID(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, lastSeen)

		shows, err := f.shows.LoadShows(ctx)
		require.NoError(t, err)
		require.Len(t, shows, 3)
		require.Len(t, shows[0].Cast, 3)
		assert.Equal(t, "1985-02-02", *shows[0].Cast[0].Birthday)
		assert.Equal(t, "1990-05-01", *shows[0].Cast[1].Birthday)
		assert.Nil(t, shows[0].Cast[2].Birthday)
		assert.True(t, shows[1].HasCast())
		assert.Empty(t, shows[1].Cast)

		run, err := f.runs.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, run.Status)
		assert.True(t, run.EndOfPages)
		assert.Equal(t, 2, run.PagesFetched)
		assert.Equal(t, 3, run.ShowsAppended)
		assert.Equal(t, 3, run.CastsFetched)
		assert.NotNil(t, run.FinishedAt)
	})

	t.Run("skips shows that already have a cast", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.shows.SaveShows(ctx, []show.Show{
			{ID: 1, Name: "done", Cast: []show.CastMember{}},
			{ID: 2, Name: "pending"},
		}))
		require.NoError(t, f.shows.SetLastSeenID(ctx, 2))
		f.client.On("ListShows", mock.Anything, 1).Return(nil, tvmaze.ErrEndOfPages)
		f.client.On("GetCast", mock.Anything, 2).Return(castOf(nil), nil)

		require.NoError(t, f.svc.Run(ctx))

		f.client.AssertNotCalled(t, "GetCast", mock.Anything, 1)
		f.client.AssertCalled(t, "GetCast", mock.Anything, 2)
	})

	t.Run("one failed cast does not affect the others", func(t *testing.T) {
		f := newFixture(t)
		pending := make([]show.Show, 6)
		for i := range pending {
			pending[i] = show.Show{ID: i + 1, Name: fmt.Sprintf("Show %d", i+1)}
		}
		require.NoError(t, f.shows.SaveShows(ctx, pending))
		require.NoError(t, f.shows.SetLastSeenID(ctx, 6))
		f.client.On("ListShows", mock.Anything, 1).Return(nil, tvmaze.ErrEndOfPages)
		f.client.On("GetCast", mock.Anything, 5).Return(nil, &tvmaze.StatusError{StatusCode: 500, URL: "cast"})
		f.client.On("GetCast", mock.Anything, mock.Anything).Return(castOf(strPtr("1970-01-01")), nil)

		require.NoError(t, f.svc.Run(ctx))

		shows, err := f.shows.LoadShows(ctx)
		require.NoError(t, err)
		for _, sh := range shows {
			if sh.ID == 5 {
				assert.False(t, sh.HasCast())
				continue
			}
			assert.Len(t, sh.Cast, 1, "show %d", sh.ID)
		}
		run, err := f.runs.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, run.CastsFetched)
		assert.Equal(t, 1, run.CastsFailed)
		assert.Equal(t, StatusCompleted, run.Status)
	})

	t.Run("fetch failure stops without backfill", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.shows.SaveShows(ctx, []show.Show{{ID: 1, Name: "pending"}}))
		require.NoError(t, f.shows.SetLastSeenID(ctx, 1))
		f.client.On("ListShows", mock.Anything, 1).Return(nil, &tvmaze.StatusError{StatusCode: 503, URL: "shows"})

		require.NoError(t, f.svc.Run(ctx))

		f.client.AssertNotCalled(t, "GetCast", mock.Anything, mock.Anything)
		run, err := f.runs.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusStopped, run.Status)
		assert.False(t, run.EndOfPages)
	})

	t.Run("empty page stops without backfill", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("ListShows", mock.Anything, 1).Return([]tvmaze.ShowRecord{}, nil)

		require.NoError(t, f.svc.Run(ctx))

		f.client.AssertNotCalled(t, "GetCast", mock.Anything, mock.Anything)
		lastSeen, err := f.shows.LastSeenID(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, lastSeen)
	})

	t.Run("interrupted wait stops the cycle", func(t *testing.T) {
		f := newFixture(t)
		f.pacer.err = context.Canceled
		f.client.On("ListShows", mock.Anything, 1).Return(showPage(1), nil)

		require.NoError(t, f.svc.Run(ctx))

		assert.Equal(t, []string{"page:1"}, f.client.calls)
		run, err := f.runs.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusStopped, run.Status)
		assert.Equal(t, 1, run.PagesFetched)
	})

	t.Run("store failure fails the run", func(t *testing.T) {
		f := newFixture(t)
		broken := show.NewKVRepository(failingSetStore{Store: kvstore.NewMemory()}, 0)
		f.svc = NewService(f.client, broken, f.runs, f.pacer, logging.Discard(), metrics.NewNop())
		f.client.On("ListShows", mock.Anything, 1).Return(showPage(1), nil)

		err := f.svc.Run(ctx)
		require.Error(t, err)

		run, err := f.runs.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, run.Status)
		assert.Contains(t, run.Error, "disk full")
	})

	t.Run("rejects an overlapping run", func(t *testing.T) {
		f := newFixture(t)
		f.svc.running.Store(true)

		err := f.svc.Run(ctx)
		assert.ErrorIs(t, err, ErrRunInProgress)
		f.client.AssertNotCalled(t, "ListShows", mock.Anything, mock.Anything)

		_, err = f.runs.LatestRun(ctx)
		assert.ErrorIs(t, err, ErrNoRuns)
	})
}

type blockingPacer struct {
	entered chan struct{}
	once    sync.Once
}

func (p *blockingPacer) Wait(ctx context.Context, _ ratelimit.Class) error {
	p.once.Do(func() { close(p.entered) })
	<-ctx.Done()
	return ctx.Err()
}

func TestService_WaitBlocksUntilRunRecorded(t *testing.T) {
	f := newFixture(t)
	pacer := &blockingPacer{entered: make(chan struct{})}
	f.svc = NewService(f.client, f.shows, f.runs, pacer, logging.Discard(), metrics.NewNop())
	f.client.On("ListShows", mock.Anything, 1).Return(showPage(1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = f.svc.Run(ctx) }()
	select {
	case <-pacer.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("run never reached the rate limiter")
	}
	assert.True(t, f.svc.Running())

	cancel()
	f.svc.Wait()

	assert.False(t, f.svc.Running())
	run, err := f.runs.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, run.Status)
	assert.Equal(t, 1, run.PagesFetched)
}
