package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"showapi/internal/kvstore"
)

// LastRunKey is the store key holding the latest Run.
const LastRunKey = "ingest:lastRun"

// ErrNoRuns is returned by LatestRun before any cycle was recorded.
var ErrNoRuns = errors.New("no ingest run recorded")

type Repository interface {
	SaveRun(ctx context.Context, run *Run) error
	LatestRun(ctx context.Context) (*Run, error)
}

// KVRepository keeps only the latest Run, overwritten on every save.
type KVRepository struct {
	store kvstore.Store
}

func NewKVRepository(store kvstore.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) SaveRun(ctx context.Context, run *Run) error {
	raw, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	return r.store.Set(ctx, LastRunKey, raw)
}

func (r *KVRepository) LatestRun(ctx context.Context) (*Run, error) {
	raw, err := r.store.Get(ctx, LastRunKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrNoRuns
		}
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &run, nil
}
