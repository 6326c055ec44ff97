package show

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showapi/internal/kvstore"
)

func TestKVRepository_ShowsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewKVRepository(store, 0)

	shows, err := repo.LoadShows(ctx)
	require.NoError(t, err)
	assert.Nil(t, shows, "nothing stored yet")

	require.NoError(t, repo.AppendShows(ctx, []Show{{ID: 1, Name: "Under the Dome"}}))
	require.NoError(t, repo.AppendShows(ctx, []Show{{ID: 2, Name: "Person of Interest"}}))

	shows, err = repo.LoadShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Show{{ID: 1, Name: "Under the Dome"}, {ID: 2, Name: "Person of Interest"}}, shows)
}

func TestKVRepository_CastEncoding(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewKVRepository(store, 0)

	require.NoError(t, repo.SaveShows(ctx, []Show{
		{ID: 1, Name: "pending"},
		{ID: 2, Name: "empty cast", Cast: []CastMember{}},
		{ID: 3, Name: "with cast", Cast: []CastMember{{ID: 9, Name: "Jim"}}},
	}))

	raw, err := store.Get(ctx, ShowsKey)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, pendingHasCast := decoded[0]["cast"]
	assert.False(t, pendingHasCast)
	assert.Equal(t, []any{}, decoded[1]["cast"])

	shows, err := repo.LoadShows(ctx)
	require.NoError(t, err)
	assert.False(t, shows[0].HasCast())
	assert.True(t, shows[1].HasCast())
	assert.True(t, shows[2].HasCast())
	assert.Nil(t, shows[2].Cast[0].Birthday)
}

func TestKVRepository_Cursor(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(kvstore.NewMemory(), 0)

	id, err := repo.LastSeenID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	require.NoError(t, repo.SetLastSeenID(ctx, 749))
	id, err = repo.LastSeenID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 749, id)
}

func TestKVRepository_CacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(kvstore.NewMemory(), time.Minute)

	require.NoError(t, repo.SaveShows(ctx, []Show{{ID: 1, Name: "a"}}))

	first, err := repo.LoadShows(ctx)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := repo.LoadShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].Name)
}

func TestKVRepository_CacheFollowsWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(kvstore.NewMemory(), time.Minute)

	require.NoError(t, repo.SaveShows(ctx, []Show{{ID: 1, Name: "a"}}))
	_, err := repo.LoadShows(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.AppendShows(ctx, []Show{{ID: 2, Name: "b"}}))
	shows, err := repo.LoadShows(ctx)
	require.NoError(t, err)
	assert.Len(t, shows, 2)
}
