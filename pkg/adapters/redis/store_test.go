package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeira/codemend/pkg/adapters/redis"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := &ports.Session{
		Snapshot: "import json\nvalue = 1\n",
		Packages: []string{"json"},
	}
	require.NoError(t, store.Save(ctx, "session-1", sess))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)

	require.NoError(t, store.Delete(ctx, "session-1"))
	_, err = store.Load(ctx, "session-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_MissingSession(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	store, mr := newTestStore(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-session", &ports.Session{Snapshot: "x = 1\n"}))

	assert.True(t, mr.Exists("custom:app:my-session"))
	assert.False(t, mr.Exists("codemend:session:my-session"))
}

func TestRedisStore_TTLExpiration(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short-lived", &ports.Session{Snapshot: "x = 1\n"}))

	_, err := store.Load(ctx, "short-lived")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
