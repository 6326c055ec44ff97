package kvstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"showapi/internal/config"
)

//go:embed migrations
var migrationFS embed.FS

// Schema applies and inspects the store's goose migrations.
type Schema struct {
	provider *goose.Provider
	close    func() error
}

func newSchema(dialect goose.Dialect, db *sql.DB, dir string) (*Schema, error) {
	fsys, err := fs.Sub(migrationFS, path.Join("migrations", dir))
	if err != nil {
		return nil, fmt.Errorf("migrations dir %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migration provider: %w", err)
	}
	return &Schema{provider: provider, close: func() error { return nil }}, nil
}

// OpenSchema opens a database handle for the configured driver without going
// through the Store, for schema management commands.
func OpenSchema(ctx context.Context, cfg config.Config) (*Schema, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, _, err := openSQLiteDB(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		s, err := newSchema(goose.DialectSQLite3, db, "sqlite")
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		s.close = db.Close
		return s, nil
	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		s, err := newSchema(goose.DialectPostgres, db, "postgres")
		if err != nil {
			_ = db.Close()
			pool.Close()
			return nil, err
		}
		s.close = func() error {
			err := db.Close()
			pool.Close()
			return err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("store driver %q has no schema", cfg.StoreDriver)
	}
}

// Up applies all pending migrations.
func (s *Schema) Up(ctx context.Context) error {
	if _, err := s.provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (s *Schema) Down(ctx context.Context) error {
	if _, err := s.provider.Down(ctx); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Status reports every known migration and whether it is applied.
func (s *Schema) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	return s.provider.Status(ctx)
}

func (s *Schema) Close() error {
	return s.close()
}
