package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "earnbot-test-" + uuid.NewString()
	store := NewRedisStoreFromClient(client, prefix)

	t.Cleanup(func() {
		client.Del(context.Background(), store.usersKey, store.lockKey)
		_ = store.Close()
	})
	return store
}

func TestRedisStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	original := sampleLedger()
	require.NoError(t, store.Save(ctx, original))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, original.IDs(), loaded.IDs())
	for _, id := range original.IDs() {
		want, _ := original.Get(id)
		got, _ := loaded.Get(id)
		assert.Equal(t, want, got)
	}
}

func TestRedisStore_LoadCorrupted(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.client.HSet(ctx, store.usersKey, "42", "{broken").Err())

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrLedgerCorrupted)
}

func TestRedisStore_LockIsExclusive(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	unlock, err := store.Lock(ctx)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = store.Lock(waitCtx)
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		unlockAgain, err := store.Lock(ctx)
		assert.NoError(t, err)
		if unlockAgain != nil {
			unlockAgain()
		}
	}()
	wg.Wait()
}
