package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"showapi/internal/config"
	"showapi/internal/kvstore"
)

type schema interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
	Status(ctx context.Context) ([]*goose.MigrationStatus, error)
}

func main() {
	command := flag.String("command", "up", "Migration command: up, down, status")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	s, err := kvstore.OpenSchema(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer s.Close()

	if err := run(ctx, s, *command, os.Stdout); err != nil {
		logrus.Fatal(err)
	}
}

func run(ctx context.Context, s schema, command string, out io.Writer) error {
	switch command {
	case "up":
		if err := s.Up(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		fmt.Fprintln(out, "Migrations applied successfully")
	case "down":
		if err := s.Down(ctx); err != nil {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}
		fmt.Fprintln(out, "Migrations rolled back successfully")
	case "status":
		statuses, err := s.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
		for _, st := range statuses {
			applied := "-"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", st.Source.Version, st.State, applied, st.Source.Path)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status", command)
	}
	return nil
}
