package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

func testState(t *testing.T) State {
	t.Helper()
	var roster model.Roster
	err := json.Unmarshal([]byte(`{
		"Zygarde": {"fast_attack": {"Dragon Tail": [3]}, "charge_moves": {"Crunch": [4, 8, 11, 15]}},
		"Azumarill": {"fast_attack": {"Bubble": [3]}, "charge_moves": {"Ice Beam": [7, 13, 20, 26]}}
	}`), &roster)
	require.NoError(t, err)
	state := NewState()
	state.Roster = roster
	state.Dataset = "great_league.json"
	state.Question = model.Question{
		Category: model.CategoryChargedMove,
		Text:     "Give sequence",
		Variants: []string{"4, 8, 11, 15"},
		Answer:   "4, 8, 11, 15",
	}
	state.HasQuestion = true
	return state
}

func createTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisStore(RedisConfig{Client: client, TTL: ttl})
	require.NoError(t, err)
	return store, mr
}

func TestStores(t *testing.T) {
	redisStore, _ := createTestRedisStore(t, time.Hour)
	stores := map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			want := testState(t)
			require.NoError(t, store.Save(ctx, "sid-1", want))

			got, err := store.Get(ctx, "sid-1")
			require.NoError(t, err)
			assert.Equal(t, want.MaxCP, got.MaxCP)
			assert.Equal(t, want.Dataset, got.Dataset)
			assert.Equal(t, want.Question, got.Question)
			assert.True(t, got.HasQuestion)
			assert.Equal(t, []string{"Zygarde", "Azumarill"}, got.Roster.Names())

			replaced := NewState()
			replaced.MaxCP = 2500
			require.NoError(t, store.Save(ctx, "sid-1", replaced))
			got, err = store.Get(ctx, "sid-1")
			require.NoError(t, err)
			assert.Equal(t, 2500, got.MaxCP)
			assert.Empty(t, got.Roster)
			assert.False(t, got.HasQuestion)

			require.NoError(t, store.Delete(ctx, "sid-1"))
			_, err = store.Get(ctx, "sid-1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRedisStoreExpires(t *testing.T) {
	store, mr := createTestRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "sid-ttl", NewState()))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"sid-ttl"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "sid-ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid-old", testState(t)))
	now = now.Add(30 * time.Second)
	_, err := store.Get(ctx, "sid-old")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "sid-old")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "sid-new", NewState()))
	assert.Len(t, store.states, 1, "expired sessions are swept on save")
	_, err = store.Get(ctx, "sid-new")
	require.NoError(t, err)
}

func TestMemoryStoreSaveRefreshesExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", NewState()))
	now = now.Add(50 * time.Second)
	require.NoError(t, store.Save(ctx, "sid", NewState()))
	now = now.Add(50 * time.Second)
	_, err := store.Get(ctx, "sid")
	assert.NoError(t, err)
}

func TestNewRedisStoreValidates(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{})
	assert.Error(t, err)

	_, err = NewRedisClient("  ")
	assert.Error(t, err)
}

func TestNewStateDefaults(t *testing.T) {
	state := NewState()
	assert.Equal(t, DefaultMaxCP, state.MaxCP)
	assert.True(t, state.Question.IsZero())
}
