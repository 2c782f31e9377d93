package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang/snappy"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/facture/internal/invoice/domain"
	"golang.org/x/crypto/blake2b"
)

const redisKeyPrefix = "facture:pdf:"

// RenderCache stores rendered PDF documents.
type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Key derives a stable cache key from the canonical data, the variant and the
// engine name. Extra parts cover anything else that changes the output.
func Key(data domain.CanonicalData, variant, engine string, extra ...string) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	hash, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	hash.Write(payload)
	for _, part := range append([]string{variant, engine}, extra...) {
		hash.Write([]byte{0})
		hash.Write([]byte(part))
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopCache) Set(context.Context, string, []byte) error { return nil }

// MemoryCache keeps documents in process.
type MemoryCache struct {
	items Cache[string, []byte]
	ttl   time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{items: NewTTLCache[string, []byte](), ttl: ttl}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	payload, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, payload []byte) error {
	c.items.Set(key, append([]byte(nil), payload...), c.ttl)
	return nil
}

// RedisCache shares documents between replicas. Payloads are snappy compressed.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	payload, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached document: %w", err)
	}
	return payload, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, payload []byte) error {
	return c.client.Set(ctx, redisKeyPrefix+key, snappy.Encode(nil, payload), c.ttl).Err()
}
