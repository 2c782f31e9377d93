package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/facture/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(NewRedisClient),
	fx.Provide(NewRenderCache),
)

// NewRedisClient returns nil when no redis address is configured.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
	}
	return client
}

// NewRenderCache selects the driver named by CACHE_DRIVER.
func NewRenderCache(cfg config.Config, client *redis.Client, log *zap.Logger) (RenderCache, error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		return NewMemoryCache(ttl), nil
	case config.CacheDriverRedis:
		if client == nil {
			return nil, errors.New("cache driver redis requires REDIS_ADDR")
		}
		if log != nil {
			log.Info("render cache backed by redis", zap.String("addr", cfg.Redis.Addr))
		}
		return NewRedisCache(client, ttl), nil
	default:
		return NopCache{}, nil
	}
}
