package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a byte cache for rendered artifacts such as customer QR codes.
// Balances are never stored here.
type Cache struct {
	client redis.Cmdable
	keys   keyspace
}

// NewCache creates a Cache.
func NewCache(client redis.Cmdable) *Cache {
	return &Cache{client: client, keys: cacheKeyspace}
}

// Get returns the cached bytes, or nil on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.keys.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return val, nil
}

// Set stores value for ttl. A non-positive ttl keeps the key until it is deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, c.keys.key(key), value, ttl).Err()
}

// Delete drops a key; deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.keys.key(key)).Err()
}
