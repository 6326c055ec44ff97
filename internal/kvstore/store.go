// Package kvstore is the durable key-value store the ingester and the read
// API share. Values are opaque bytes; callers own the encoding.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"showapi/internal/config"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// Store is a process-wide get/set store. Implementations are safe for
// concurrent use, but a read-modify-write spanning Get and Set is not atomic.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Open initializes the store selected by cfg.StoreDriver and applies any
// pending schema migrations.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
