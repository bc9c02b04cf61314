package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/artem13815/hr/booking/api/http/presenter"
	"github.com/artem13815/hr/booking/pkg/logging"
)

// Limiter decides whether one more call under key fits into the window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared by all replicas.
// Redis errors fail open.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	log    *logging.Logger
}

func NewRedisLimiter(client *redis.Client, log *logging.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		log:    log.Component("ratelimit"),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key}, ttl, limit).Int64()
	if err != nil {
		l.log.Warn("rate limit check failed", "key", key, "err", err)
		return true
	}
	return allowed == 1
}

// LocalLimiter is the single-process fallback used when redis is not configured.
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{buckets: make(map[string]*rateBucket), now: time.Now}
}

func (r *LocalLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	bucket, ok := r.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		r.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// RateLimit limits calls per token subject. It must run after the auth middleware.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		subject, _ := c.Locals("userId").(string)
		if subject == "" {
			return c.Next()
		}
		if !limiter.Allow(c.Context(), scope+":"+subject, limit, window) {
			return presenter.Error(c, http.StatusTooManyRequests, "слишком много запросов, попробуйте позже")
		}
		return c.Next()
	}
}
