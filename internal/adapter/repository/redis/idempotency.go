package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Processing marks a key whose first request is still running.
const Processing = "processing"

// IdempotencyStore records the outcome of sale and payment submissions keyed
// by the client's Idempotency-Key.
type IdempotencyStore struct {
	client redis.Cmdable
	keys   keyspace
}

// NewIdempotencyStore creates an IdempotencyStore.
func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{client: client, keys: idempotencyKeyspace}
}

// CheckAndSet claims key with SETNX. When the key is already taken it reports
// exists=true with the stored value, which is a response or Processing.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	k := s.keys.key(key)

	claim := response
	if claim == nil {
		claim = []byte(Processing)
	}

	claimed, err := s.client.SetNX(ctx, k, claim, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if claimed {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET.
		return true, []byte(Processing), nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, existing, nil
}

// Update replaces the claim with the final response and restarts its TTL.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.keys.key(key), response, ttl).Err()
}

// Release frees the key after a failed request so the client can retry it.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.keys.key(key)).Err()
}
