package record

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store, err := NewRedisStore(client, nil, "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return mr, store
}

func TestRedisStoreAccessorContract(t *testing.T) {
	_, store := setupTestRedis(t)
	exerciseAccessor(t, store)
}

func TestRedisStoreKeyLayout(t *testing.T) {
	mr, store := setupTestRedis(t)
	ctx := context.Background()

	acc, err := store.Accessor(Guests)
	require.NoError(t, err)

	_, err = acc.Put(ctx, Record{"id": "g1", "wedding_id": "W1", "name": "Ana"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:guests:rec:g1"))

	members, err := mr.Members("test:guests:ids")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, members)

	members, err = mr.Members("test:guests:wedding:W1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, members)
}

func TestRedisStoreSkipsDanglingIDs(t *testing.T) {
	mr, store := setupTestRedis(t)
	ctx := context.Background()

	acc, err := store.Accessor(Tasks)
	require.NoError(t, err)
	_, err = acc.Put(ctx, Record{"id": "t1", "wedding_id": "W1"})
	require.NoError(t, err)

	_, err = mr.SAdd("test:tasks:wedding:W1", "ghost")
	require.NoError(t, err)

	got, err := acc.Query(ctx, Filter{"wedding_id": "W1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID())
}

func TestRedisStoreBackendFailure(t *testing.T) {
	mr, store := setupTestRedis(t)
	mr.Close()

	acc, err := store.Accessor(Vendors)
	require.NoError(t, err)

	_, err = acc.Get(context.Background(), "v1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
