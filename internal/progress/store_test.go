package progress

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewStore(client, 0)
	store.now = func() time.Time { return time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC) }
	return store, mr
}

func TestStore_UpdateAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "run-1", "gaps_fetched", StatusRunning, ""))
	require.NoError(t, store.Update(ctx, "run-1", "failed", StatusFailed, "questions: no data"))

	record, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", record.RunID)
	assert.Equal(t, "failed", record.Stage)
	assert.Equal(t, StatusFailed, record.Status)
	assert.Equal(t, "questions: no data", record.Error)
	assert.Equal(t, time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC), record.UpdatedAt)

	assert.Equal(t, DefaultTTL, mr.TTL("chain:run:run-1"))
}

func TestStore_Expires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "run-2", "persisted", StatusCompleted, ""))
	mr.FastForward(DefaultTTL + time.Second)

	_, err := store.Get(ctx, "run-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetUnknown(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	err := store.Update(context.Background(), "run-3", "idle", StatusRunning, "")
	assert.Error(t, err)
}
