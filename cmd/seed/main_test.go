package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShows(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	shows := generateShows(rng, 50, 1)

	require.Len(t, shows, 50)
	for i, sh := range shows {
		assert.Equal(t, i+1, sh.ID)
		assert.NotEmpty(t, sh.Name)
		assert.True(t, sh.HasCast())

		var prev time.Time
		undated := false
		for _, m := range sh.Cast {
			if m.Birthday == nil {
				undated = true
				continue
			}
			assert.False(t, undated, "dated member after an undated one in show %d", sh.ID)
			d, err := time.Parse("2006-01-02", *m.Birthday)
			require.NoError(t, err)
			assert.False(t, d.Before(prev))
			prev = d
		}
	}
}

func TestGenerateShows_NoCast(t *testing.T) {
	shows := generateShows(rand.New(rand.NewSource(1)), 10, 0)
	for _, sh := range shows {
		assert.False(t, sh.HasCast())
	}
}
