package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/jetleads/internal/logger"
)

// fixedWindowScript increments the counter and sets the expiry on the first hit
// of a window, returning the count and the remaining TTL in milliseconds.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// RedisLimiter shares counters across instances. Any Redis failure is answered
// by the embedded in-process limiter.
type RedisLimiter struct {
	client   redis.Scripter
	prefix   string
	max      int
	window   time.Duration
	fallback *MemoryLimiter
	now      func() time.Time
}

func NewRedisLimiter(client redis.Scripter, prefix string, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		max:      cfg.MaxRequests,
		window:   cfg.Window,
		fallback: NewMemoryLimiter(cfg),
		now:      time.Now,
	}
}

// SetClock is used only for tests. It also drives the fallback limiter.
func (l *RedisLimiter) SetClock(now func() time.Time) {
	l.now = now
	l.fallback.SetClock(now)
}

func (l *RedisLimiter) Check(ctx context.Context, key string) Decision {
	if key == "" {
		key = UnknownKey
	}

	res, err := fixedWindowScript.Run(ctx, l.client,
		[]string{fmt.Sprintf("rl:%s:%s", l.prefix, key)},
		l.window.Milliseconds(),
	).Int64Slice()
	if err != nil || len(res) != 2 {
		if err == nil {
			err = fmt.Errorf("unexpected script result length %d", len(res))
		}
		logger.LogError("rate_limit_store_unavailable", err, map[string]interface{}{
			"limiter": l.prefix,
		})
		return l.fallback.Check(ctx, key)
	}

	count := int(res[0])
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}
	return Decision{
		Admitted:  count <= l.max,
		Remaining: remaining(l.max, count),
		ResetAt:   l.now().Add(ttl),
	}
}

// Fallback exposes the in-process limiter so its sweeper can be started.
func (l *RedisLimiter) Fallback() *MemoryLimiter {
	return l.fallback
}
