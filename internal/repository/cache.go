package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Cache holds read models between writes. Every write path in this package
// deletes the keys it affects; a cache failure never fails a request.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	Delete(ctx context.Context, keys ...string)
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		// plain host:port, as used in development
		opts = &redis.Options{Addr: redisURL}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client, ttl: ttl, prefix: "villa:"}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache entry undecodable")
		return false
	}
	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache entry unencodable")
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.prefix + k
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		logrus.WithError(err).Warn("Cache invalidation failed")
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// MemoryCache is the single-instance fallback when no redis is configured.
// Values are stored encoded so callers never share mutable state.
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache keeps entries for ttl; a ttl of zero or less keeps them
// until they are deleted.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		return &MemoryCache{items: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryCache{items: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) bool {
	v, ok := c.items.Get(key)
	if !ok {
		return false
	}
	data, ok := v.([]byte)
	return ok && json.Unmarshal(data, dest) == nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache entry unencodable")
		return
	}
	c.items.SetDefault(key, data)
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) {
	for _, k := range keys {
		c.items.Delete(k)
	}
}

// Len counts stored entries, including expired ones not yet evicted.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
