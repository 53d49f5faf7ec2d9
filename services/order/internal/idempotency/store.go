// Package idempotency binds client supplied Idempotency-Key values to created orders.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TTL            = 24 * time.Hour
	keyCreateOrder = "idem:order:create:%s:%s"
)

type Store interface {
	// Lookup reports the order bound to key for this customer, if any.
	Lookup(ctx context.Context, customerID uuid.UUID, key string) (uuid.UUID, bool, error)
	Remember(ctx context.Context, customerID uuid.UUID, key string, orderID uuid.UUID) error
}

func Key(customerID uuid.UUID, key string) string {
	return fmt.Sprintf(keyCreateOrder, customerID, key)
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: TTL}
}

func (s *RedisStore) Lookup(ctx context.Context, customerID uuid.UUID, key string) (uuid.UUID, bool, error) {
	val, err := s.rdb.Get(ctx, Key(customerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis get: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("stored order id %q: %w", val, err)
	}
	return id, true, nil
}

func (s *RedisStore) Remember(ctx context.Context, customerID uuid.UUID, key string, orderID uuid.UUID) error {
	if err := s.rdb.Set(ctx, Key(customerID, key), orderID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// MemoryStore keeps keys in process. It serves single instance deployments without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	orderID uuid.UUID
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: TTL, now: time.Now}
}

func (s *MemoryStore) Lookup(_ context.Context, customerID uuid.UUID, key string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key(customerID, key)
	e, ok := s.entries[k]
	if !ok {
		return uuid.Nil, false, nil
	}
	if s.now().After(e.expires) {
		delete(s.entries, k)
		return uuid.Nil, false, nil
	}
	return e.orderID, true, nil
}

func (s *MemoryStore) Remember(_ context.Context, customerID uuid.UUID, key string, orderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[Key(customerID, key)] = memoryEntry{orderID: orderID, expires: s.now().Add(s.ttl)}
	return nil
}
