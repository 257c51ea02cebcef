// Package cache is the key/value store actions get through the "cache" injection.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Store is implemented by Memory and Redis.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Memory is a thread-safe in-process Store.
type Memory struct {
	mu sync.Mutex
	m  sync.Map
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     string
	ExpiresAt int64 // Unix timestamp in nanoseconds; 0 means no expiration
}

func (c *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.m.Load(key)
	if !ok {
		return "", false, nil
	}
	item := v.(cacheItem)
	if item.ExpiresAt > 0 && time.Now().UnixNano() > item.ExpiresAt {
		c.m.Delete(key)
		return "", false, nil
	}
	return item.Value, true, nil
}

func (c *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	return nil
}

// Delete removes multiple keys from the cache.
func (c *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.m.Delete(key)
	}
	return nil
}

// Incr adds one to the integer at key, starting from 0. The key's TTL is kept.
func (c *Memory) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	var expiresAt int64
	if v, ok := c.m.Load(key); ok {
		item := v.(cacheItem)
		if item.ExpiresAt == 0 || time.Now().UnixNano() <= item.ExpiresAt {
			parsed, err := strconv.ParseInt(item.Value, 10, 64)
			if err != nil {
				return 0, err
			}
			n, expiresAt = parsed, item.ExpiresAt
		}
	}
	n++
	c.m.Store(key, cacheItem{Value: strconv.FormatInt(n, 10), ExpiresAt: expiresAt})
	return n, nil
}
