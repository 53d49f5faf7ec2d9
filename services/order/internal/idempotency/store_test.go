package idempotency

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	require.Equal(t, "idem:order:create:11111111-2222-3333-4444-555555555555:abc", Key(id, "abc"))
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	customer, other := uuid.New(), uuid.New()
	key := uuid.NewString()
	orderID := uuid.New()

	_, ok, err := s.Lookup(ctx, customer, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Remember(ctx, customer, key, orderID))

	got, ok, err := s.Lookup(ctx, customer, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, orderID, got)

	_, ok, err = s.Lookup(ctx, other, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	customer, orderID := uuid.New(), uuid.New()
	require.NoError(t, s.Remember(context.Background(), customer, "k", orderID))

	now = now.Add(TTL + time.Second)
	_, ok, err := s.Lookup(context.Background(), customer, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	rdb := NewRedisClient(addr)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	s := NewRedisStore(rdb)
	exerciseStore(t, s)

	customer := uuid.New()
	require.NoError(t, s.Remember(context.Background(), customer, "ttl", uuid.New()))
	ttl, err := rdb.TTL(context.Background(), Key(customer, "ttl")).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, TTL-time.Minute)
}
