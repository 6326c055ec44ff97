package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"showapi/internal/config"
	"showapi/internal/kvstore"
	"showapi/internal/show"
)

func main() {
	count := flag.Int("count", 1000, "Number of shows to generate")
	castRatio := flag.Float64("cast-ratio", 0.8, "Share of shows that get a cast")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	if cfg.StoreDriver == config.DriverMemory {
		logrus.Fatal("seeding the memory store has no effect, use sqlite or postgres")
	}

	ctx := context.Background()
	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	logrus.Infof("Generating %d shows...", *count)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	shows := generateShows(rng, *count, *castRatio)

	repo := show.NewKVRepository(store, 0)
	if err := repo.SaveShows(ctx, shows); err != nil {
		logrus.Fatalf("Failed to store shows: %v", err)
	}
	if len(shows) > 0 {
		if err := repo.SetLastSeenID(ctx, shows[len(shows)-1].ID); err != nil {
			logrus.Fatalf("Failed to store cursor: %v", err)
		}
	}
	logrus.Infof("Successfully stored %d shows!", len(shows))
}

// generateShows returns count shows with ascending ids. A share of them,
// picked at random, carries a sorted cast.
func generateShows(rng *rand.Rand, count int, castRatio float64) []show.Show {
	shows := make([]show.Show, 0, count)
	personID := 1
	for i := 0; i < count; i++ {
		sh := show.Show{
			ID:   i + 1,
			Name: fmt.Sprintf("%s %s", randomWord(rng), randomWord(rng)),
		}
		if rng.Float64() < castRatio {
			size := rng.Intn(6)
			sh.Cast = make([]show.CastMember, 0, size)
			for j := 0; j < size; j++ {
				sh.Cast = append(sh.Cast, show.CastMember{
					ID:       personID,
					Name:     fmt.Sprintf("Actor %d", personID),
					Birthday: randomBirthday(rng),
				})
				personID++
			}
			show.SortCastByBirthday(sh.Cast)
		}
		shows = append(shows, sh)
	}
	return shows
}

func randomBirthday(rng *rand.Rand) *string {
	if rng.Intn(5) == 0 {
		return nil
	}
	d := time.Date(1930+rng.Intn(75), time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.Intn(365))
	s := d.Format("2006-01-02")
	return &s
}

func randomWord(rng *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rng.Intn(len(words))]
}
