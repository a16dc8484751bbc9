package storage

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// DeliveryTTL is how long a webhook signature is remembered
const DeliveryTTL = time.Hour

// memoryStoreSize bounds the in-memory store when Redis is unavailable
const memoryStoreSize = 10000

// DeliveryStore remembers processed webhook deliveries so retries are
// acknowledged without being processed twice
type DeliveryStore interface {
	// MarkProcessed records key and reports whether it was new.
	MarkProcessed(ctx context.Context, key string) (bool, error)
	// Forget drops key so a later delivery is processed again.
	Forget(ctx context.Context, key string) error
}

// NewDeliveryStore returns a Redis-backed store, or an in-memory one when
// client is nil
func NewDeliveryStore(client *redis.Client) DeliveryStore {
	if client == nil {
		return &memoryDeliveryStore{
			seen: expirable.NewLRU[string, struct{}](memoryStoreSize, nil, DeliveryTTL),
		}
	}
	return &redisDeliveryStore{client: client}
}

type redisDeliveryStore struct {
	client *redis.Client
}

func (s *redisDeliveryStore) MarkProcessed(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, deliveryKey(key), time.Now().Unix(), DeliveryTTL).Result()
}

func (s *redisDeliveryStore) Forget(ctx context.Context, key string) error {
	return s.client.Del(ctx, deliveryKey(key)).Err()
}

func deliveryKey(key string) string {
	return "webhook_delivery_" + key
}

type memoryDeliveryStore struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func (s *memoryDeliveryStore) MarkProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen.Contains(key) {
		return false, nil
	}
	s.seen.Add(key, struct{}{})
	return true, nil
}

func (s *memoryDeliveryStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen.Remove(key)
	return nil
}
