package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/internal/infrastructure/persistence/redis"
	"github.com/artsapp/builder/pkg/logger"
)

func newStore(t *testing.T, ttl time.Duration) (*redis.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	conn := redis.NewRedisConnectionFromClient(client, logger.NewNoopLogger())
	return redis.NewSessionStore(conn, ttl, logger.NewNoopLogger()), s
}

func TestSessionStore_SaveLoad(t *testing.T) {
	store, mr := newStore(t, time.Hour)
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	state := repository.SessionState{
		Language: "en",
		User:     &models.User{ID: "u1", Name: "Kari", Permissions: []string{"CREATE_KEY"}},
	}
	require.NoError(t, store.Save(ctx, "s1", state))
	assert.True(t, mr.Exists("builder:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("builder:session:s1"))

	loaded, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, loaded)
	assert.True(t, loaded.AppState().SignedIn())
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", repository.SessionState{Language: "no"}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", repository.SessionState{Language: "no"}))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_UnreadableStateIsDiscarded(t *testing.T) {
	store, mr := newStore(t, time.Hour)
	require.NoError(t, mr.Set("builder:session:bad", "{not json"))

	_, ok, err := store.Load(context.Background(), "bad")
	require.NoError(t, err)
	assert.False(t, ok)
}
