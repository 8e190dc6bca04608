package config

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache stores JSON values with a TTL. It is backed by Redis when a client is
// given, otherwise by a process-local map.
type Cache struct {
	rdb *redis.Client

	mu    sync.Mutex
	items map[string]cacheItem
	now   func() time.Time
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

var AppCache = NewCache(nil)

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{
		rdb:   rdb,
		items: make(map[string]cacheItem),
		now:   time.Now,
	}
}

// GetJSON reports whether key was found and decoded into dst.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	var raw []byte
	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, key).Bytes()
		if err != nil {
			if err != redis.Nil {
				log.Printf("Redis error on GET %s: %v", key, err)
			}
			return false
		}
		raw = val
	} else {
		c.mu.Lock()
		item, ok := c.items[key]
		if ok && c.now().After(item.expiresAt) {
			delete(c.items, key)
			ok = false
		}
		c.mu.Unlock()
		if !ok {
			return false
		}
		raw = item.value
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to encode cache value for key %s: %v", key, err)
		return
	}
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
			log.Printf("Failed to set cache for key %s: %v", key, err)
		}
		return
	}
	c.mu.Lock()
	c.items[key] = cacheItem{value: raw, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Exists(ctx context.Context, key string) bool {
	if c.rdb != nil {
		n, err := c.rdb.Exists(ctx, key).Result()
		if err != nil {
			log.Printf("Redis error on EXISTS %s: %v", key, err)
			return false
		}
		return n > 0
	}
	var v json.RawMessage
	return c.GetJSON(ctx, key, &v)
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c.rdb != nil {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			log.Printf("Failed to delete cache keys %v: %v", keys, err)
		}
		return
	}
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
}
