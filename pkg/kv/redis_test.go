package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subtracker/pkg/kv"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_GetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newRedis(t)
	slot := kv.NewRedis(client)

	_, err := slot.Get(ctx, testKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, slot.Set(ctx, testKey, []byte(`[]`)))
	got, err := slot.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	raw, err := mr.Get(testKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)

	assert.ErrorIs(t, slot.Set(ctx, "", nil), kv.ErrInvalidKey)
}

func TestRedis_ServerDown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newRedis(t)
	slot := kv.NewRedis(client)

	mr.Close()

	assert.ErrorIs(t, slot.Set(ctx, testKey, []byte(`[]`)), kv.ErrRedisCommand)
	_, err := slot.Get(ctx, testKey)
	assert.ErrorIs(t, err, kv.ErrRedisCommand)
}

func TestRedis_Watch(t *testing.T) {
	t.Parallel()
	_, client := newRedis(t)
	slot := kv.NewRedis(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := slot.Watch(ctx, testKey)
	require.NoError(t, err)

	require.NoError(t, slot.Set(context.Background(), testKey, []byte(`[]`)))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestConnectRedis(t *testing.T) {
	t.Parallel()

	t.Run("connects", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		client, err := kv.ConnectRedis(context.Background(), kv.RedisConfig{
			ConnectionURL:  "redis://" + mr.Addr() + "/0",
			RetryAttempts:  1,
			ConnectTimeout: time.Second,
		})
		require.NoError(t, err)
		require.NoError(t, client.Close())
	})

	t.Run("bad url", func(t *testing.T) {
		t.Parallel()
		_, err := kv.ConnectRedis(context.Background(), kv.RedisConfig{ConnectionURL: "://nope"})
		assert.ErrorIs(t, err, kv.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := kv.ConnectRedis(context.Background(), kv.RedisConfig{
			ConnectionURL:  "redis://" + addr + "/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, kv.ErrRedisNotReady)
	})
}
