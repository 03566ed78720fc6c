package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/earning-bot/internal/model"
)

func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URI is not set")
	}

	store, err := NewPostgresStore(dsn)
	require.NoError(t, err)

	_, err = store.pool.Exec(context.Background(), `TRUNCATE users`)
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPostgresStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

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

func TestPostgresStore_ReferredByIsNotOverwritten(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLedger()))

	changed := sampleLedger()
	u, _ := changed.Get(222)
	u.ReferredBy = int64Ptr(999)
	u.Balance = 10
	require.NoError(t, store.Save(ctx, changed))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	got, _ := loaded.Get(222)
	require.NotNil(t, got.ReferredBy)
	assert.Equal(t, int64(111), *got.ReferredBy)
	assert.Equal(t, int64(10), got.Balance)
}

func TestPostgresStore_DuplicateRefCode(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	l := model.NewLedger()
	l.Put(1, &model.User{RefCode: "samecode"})
	l.Put(2, &model.User{RefCode: "samecode"})

	err := store.Save(ctx, l)
	assert.ErrorIs(t, err, ErrRefCodeTaken)
}
