// Package rediscache backs the local cache with Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bergwerk/iceberg-data/cache"
)

// keyPrefix namespaces every cache entry in Redis.
const keyPrefix = "cache:"

type Cache struct {
	client *redis.Client
}

var _ cache.Cache = (*Cache)(nil)

// Connect opens a Redis client and pings it before returning.
func Connect(redisURI string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, err
	}

	// Configure connection pool and timeouts for better resilience
	opt.PoolSize = 10
	opt.MinIdleConns = 5
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Cache{client: client}, nil
}

func (c *Cache) SaveLocally(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	// No expiry: entries persist until overwritten or deleted.
	return c.client.Set(ctx, keyPrefix+key, data, 0).Err()
}

func (c *Cache) GetLocal(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		// A corrupt entry reads the same as a miss.
		return false, nil
	}
	return true, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, keyPrefix+key).Err()
}

func (c *Cache) Keys(ctx context.Context, prefix string) ([]string, error) {
	full, err := c.client.Keys(ctx, keyPrefix+prefix+"*").Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, keyPrefix))
	}
	return keys, nil
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
