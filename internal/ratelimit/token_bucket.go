package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
)

// weightedBucketScript refills at ARGV[1] tokens per second up to ARGV[2] and
// takes ARGV[4] tokens when enough are available. Redis truncates Lua numbers
// to integers on return, so the balance comes back as a string.
const weightedBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local clock = redis.call("TIME")
local now = clock[1] * 1000 + math.floor(clock[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or burst
local last = tonumber(state[2]) or now

local elapsed = math.max(0, now - last)
tokens = math.min(burst, tokens + elapsed / 1000 * rate)

local granted = 0
if tokens >= cost then
  granted = 1
  tokens = tokens - cost
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)

return {granted, tostring(tokens), now}
`

var (
	errNotConfigured = errors.New("rate limiter not configured")
	errBadArguments  = errors.New("rate limiter arguments must be positive")
	errBadResponse   = errors.New("invalid rate limit script response")
)

// TokenBucket is a redis-side token bucket where one call may take several
// tokens at once.
type TokenBucket struct {
	client redis.Scripter
	script *redis.Script
}

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

func NewTokenBucket(client redis.Scripter) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{
		client: client,
		script: redis.NewScript(weightedBucketScript),
	}
}

// Take tries to remove cost tokens from the bucket at key.
func (t *TokenBucket) Take(ctx context.Context, key string, cost int, rate float64, burst int) (*Result, error) {
	if t == nil || t.client == nil {
		return nil, errNotConfigured
	}
	if key == "" || cost <= 0 || rate <= 0 || burst <= 0 {
		return nil, errBadArguments
	}
	if cost > burst {
		return &Result{Limit: burst}, nil
	}

	ttl := bucketTTL(rate, burst)
	res, err := t.script.Run(ctx, t.client, []string{key}, rate, burst, ttl.Milliseconds(), cost).Slice()
	if err != nil {
		return nil, err
	}
	if len(res) != 3 {
		return nil, errBadResponse
	}

	return newResult(
		cast.ToInt64(res[0]) == 1,
		cast.ToFloat64(res[1]),
		time.UnixMilli(cast.ToInt64(res[2])),
		cost,
		rate,
		burst,
	), nil
}

func newResult(granted bool, balance float64, at time.Time, cost int, rate float64, burst int) *Result {
	var wait time.Duration
	if !granted {
		if missing := float64(cost) - balance; missing > 0 {
			wait = time.Duration(missing / rate * float64(time.Second))
		}
	}
	return &Result{
		Allowed:    granted,
		Limit:      burst,
		Remaining:  int(math.Floor(balance)),
		ResetTime:  at.Add(wait),
		RetryAfter: wait,
	}
}

// bucketTTL keeps an idle bucket around for twice the time it takes to refill.
func bucketTTL(rate float64, burst int) time.Duration {
	if rate <= 0 || burst <= 0 {
		return time.Second
	}
	return time.Duration(max(1, math.Ceil(2*float64(burst)/rate))) * time.Second
}
