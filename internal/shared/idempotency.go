package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrIdempotencyConflict indicates a duplicate key.
var ErrIdempotencyConflict = errors.New("idempotent request already processed")

// IdempotencyStore remembers processed request keys for a retention
// window so retried posting submissions are not applied twice.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore constructs the store.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// CheckAndInsert claims the key for the given tenant and module. The
// second claim within the retention window fails with
// ErrIdempotencyConflict.
func (s *IdempotencyStore) CheckAndInsert(ctx context.Context, tenantID int64, module, key string) error {
	if s == nil || s.client == nil {
		return errors.New("idempotency store not initialised")
	}
	if key == "" {
		return errors.New("idempotency key required")
	}
	if module == "" {
		return errors.New("idempotency module required")
	}
	ok, err := s.client.SetNX(ctx, s.redisKey(tenantID, module, key), 1, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrIdempotencyConflict
	}
	return nil
}

// Release removes a key, typically used to roll back failed processing.
func (s *IdempotencyStore) Release(ctx context.Context, tenantID int64, module, key string) error {
	if s == nil || s.client == nil {
		return nil
	}
	if key == "" {
		return errors.New("idempotency key required")
	}
	return s.client.Del(ctx, s.redisKey(tenantID, module, key)).Err()
}

func (s *IdempotencyStore) redisKey(tenantID int64, module, key string) string {
	return fmt.Sprintf("idem:%d:%s:%s", tenantID, module, key)
}
