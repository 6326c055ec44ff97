package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"showapi/internal/kvstore"
)

// Keys under which the collections live in the store.
const (
	ShowsKey  = "shows"
	CursorKey = "lastShowId"
)

//go:generate mockgen -destination=mock_repository.go -package=show showapi/internal/show Repository

// Repository defines the contract for the persisted show collection and the
// crawl cursor.
type Repository interface {
	// LoadShows returns the stored collection, or nil if none was stored yet.
	LoadShows(ctx context.Context) ([]Show, error)
	SaveShows(ctx context.Context, shows []Show) error
	// AppendShows loads the collection, appends shows and stores it back.
	AppendShows(ctx context.Context, shows []Show) error
	// LastSeenID returns the cursor, 0 when absent.
	LastSeenID(ctx context.Context) (int, error)
	SetLastSeenID(ctx context.Context, id int) error
}

const showsCacheKey = "shows"

// KVRepository implements Repository on a kvstore.Store. Decoded
// collections are cached for ttl and replaced on every write made through
// this repository.
type KVRepository struct {
	store kvstore.Store
	cache *cache.Cache
	ttl   time.Duration
}

func NewKVRepository(store kvstore.Store, ttl time.Duration) *KVRepository {
	return &KVRepository{
		store: store,
		cache: cache.New(ttl, 2*ttl+time.Minute),
		ttl:   ttl,
	}
}

func (r *KVRepository) LoadShows(ctx context.Context) ([]Show, error) {
	if r.ttl > 0 {
		if cached, ok := r.cache.Get(showsCacheKey); ok {
			return slices.Clone(cached.([]Show)), nil
		}
	}

	raw, err := r.store.Get(ctx, ShowsKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var shows []Show
	if err := json.Unmarshal(raw, &shows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ShowsKey, err)
	}
	if shows == nil {
		shows = []Show{}
	}
	r.remember(shows)
	return slices.Clone(shows), nil
}

func (r *KVRepository) SaveShows(ctx context.Context, shows []Show) error {
	if shows == nil {
		shows = []Show{}
	}
	raw, err := json.Marshal(shows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ShowsKey, err)
	}
	if err := r.store.Set(ctx, ShowsKey, raw); err != nil {
		r.cache.Delete(showsCacheKey)
		return err
	}
	r.remember(slices.Clone(shows))
	return nil
}

func (r *KVRepository) AppendShows(ctx context.Context, shows []Show) error {
	r.cache.Delete(showsCacheKey)
	stored, err := r.LoadShows(ctx)
	if err != nil {
		return err
	}
	return r.SaveShows(ctx, append(stored, shows...))
}

func (r *KVRepository) LastSeenID(ctx context.Context) (int, error) {
	raw, err := r.store.Get(ctx, CursorKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	id, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", CursorKey, err)
	}
	return id, nil
}

func (r *KVRepository) SetLastSeenID(ctx context.Context, id int) error {
	return r.store.Set(ctx, CursorKey, []byte(strconv.Itoa(id)))
}

func (r *KVRepository) remember(shows []Show) {
	if r.ttl > 0 {
		r.cache.Set(showsCacheKey, shows, r.ttl)
	}
}
