// Package memcache is a process-local cache.Cache. It backs tests and the
// degraded mode entered when Redis is unreachable at startup; entries do not
// survive a restart.
package memcache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bergwerk/iceberg-data/cache"
)

type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ cache.Cache = (*Cache)(nil)

func New() *Cache {
	return &Cache{entries: make(map[string]string)}
}

func (c *Cache) SaveLocally(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = string(data)
	return nil
}

func (c *Cache) GetLocal(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	val, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *Cache) Keys(_ context.Context, prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var keys []string
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
