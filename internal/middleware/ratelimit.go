package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"rakshak-service/helper"
	"rakshak-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func (c RateLimitConfig) Validate() error {
	if c.Requests <= 0 {
		return fmt.Errorf("requests must be > 0 (got %d)", c.Requests)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be > 0 (got %s)", c.Window)
	}
	return nil
}

// RateLimitStore counts requests per key in fixed windows. retryAfter is
// in whole seconds and only meaningful when allowed is false.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, cfg RateLimitConfig) (allowed bool, retryAfter int, err error)
}

type RedisRateLimitStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisRateLimitStore(client redis.Cmdable) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, cfg RateLimitConfig) (bool, int, error) {
	k := s.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, cfg.Window)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return true, 0, err
	}

	if incr.Val() <= int64(cfg.Requests) {
		return true, 0, nil
	}
	return false, retrySeconds(ttl.Val()), nil
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// InMemoryRateLimitStore is used when no Redis address is configured.
type InMemoryRateLimitStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	return &InMemoryRateLimitStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (s *InMemoryRateLimitStore) Allow(_ context.Context, key string, cfg RateLimitConfig) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets[key]
	if !ok || !now.Before(b.windowEnd) {
		s.buckets[key] = &bucket{count: 1, windowEnd: now.Add(cfg.Window)}
		return true, 0, nil
	}

	if b.count < cfg.Requests {
		b.count++
		return true, 0, nil
	}
	return false, retrySeconds(b.windowEnd.Sub(now)), nil
}

// Cleanup drops expired buckets.
func (s *InMemoryRateLimitStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, b := range s.buckets {
		if !now.Before(b.windowEnd) {
			delete(s.buckets, key)
		}
	}
}

func retrySeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs <= 0 {
		return 1
	}
	return secs
}

// RateLimit rejects requests over the limit with 429. Store errors let
// the request through.
func RateLimit(store RateLimitStore, cfg RateLimitConfig, m *metrics.Metrics, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		key := route + ":" + c.ClientIP()

		allowed, retryAfter, err := store.Allow(c.Request.Context(), key, cfg)
		if err != nil {
			m.IncRateLimitRedisError()
			logger.Warnw("rate limiter unavailable, allowing request", "route", route, "error", err)
			c.Next()
			return
		}

		if !allowed {
			m.IncRateLimitBlocked(route)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			helper.SendError(c, http.StatusTooManyRequests, errors.New("too many requests, slow down"), helper.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
