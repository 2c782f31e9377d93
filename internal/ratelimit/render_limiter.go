package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/facture/internal/config"
)

const keyRenderClient = "facture:render:client:%s"

// Limiter decides whether a caller may render another batch of documents.
// cost is the number of documents the request will produce.
type Limiter interface {
	Enabled() bool
	AllowRender(ctx context.Context, clientKey string, cost int) (*Result, error)
}

// RenderLimiter throttles render requests per client address.
type RenderLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
}

// NewRenderLimiter returns a disabled limiter unless RATE_LIMIT_ENABLED is set.
func NewRenderLimiter(cfg config.Config, client *redis.Client) (*RenderLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return &RenderLimiter{}, nil
	}
	if client == nil {
		return nil, errors.New("rate limit requires REDIS_ADDR")
	}
	if limitCfg.RenderRate <= 0 || limitCfg.RenderBurst <= 0 {
		return nil, errors.New("render rate limit must be positive")
	}

	return &RenderLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.RenderRate,
		burst:   limitCfg.RenderBurst,
	}, nil
}

func (l *RenderLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *RenderLimiter) AllowRender(ctx context.Context, clientKey string, cost int) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = "anonymous"
	}
	if cost < 1 {
		cost = 1
	}
	return l.bucket.Take(ctx, fmt.Sprintf(keyRenderClient, clientKey), cost, l.rate, l.burst)
}
