package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores serialized vectors. Get reports a miss with ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client goredis.UniversalClient
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client goredis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// NewRedisCacheFromURL connects to url (redis://...) and pings it.
func NewRedisCacheFromURL(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisCache(client), nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedModel wraps a Model with a read-through cache. Cache failures are
// logged and fall through to the wrapped model.
type CachedModel struct {
	model  Model
	cache  Cache
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewCachedModel creates a CachedModel. Keys look like
// <prefix><model name>:<sha256 of text>.
func NewCachedModel(model Model, cache Cache, prefix string, ttl time.Duration, logger *zap.Logger) *CachedModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedModel{model: model, cache: cache, ttl: ttl, prefix: prefix, logger: logger}
}

func (c *CachedModel) Name() string    { return c.model.Name() }
func (c *CachedModel) Dimensions() int { return c.model.Dimensions() }

// Close closes the wrapped model and the cache when they hold resources.
func (c *CachedModel) Close() error {
	var errs []error
	if closer, ok := c.model.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if closer, ok := c.cache.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func (c *CachedModel) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + c.model.Name() + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedModel) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	data, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("embedding cache read failed", zap.Error(err))
	case ok:
		var vec []float32
		if err := json.Unmarshal(data, &vec); err == nil {
			c.logger.Debug("embedding cache hit", zap.String("key", key))
			return vec, nil
		}
		c.logger.Warn("corrupt cached embedding, deleting", zap.String("key", key))
		_ = c.cache.Del(ctx, key)
	}

	vec, err := c.model.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(vec)
	if err != nil {
		c.logger.Warn("failed to marshal embedding for caching", zap.Error(err))
		return vec, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("failed to cache embedding", zap.Error(err))
	}
	return vec, nil
}
