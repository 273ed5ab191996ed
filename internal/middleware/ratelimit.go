// Package middleware provides HTTP middleware for the attendance API.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// maxBuckets is the maximum number of tracked keys.
const maxBuckets = 100_000

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(c *gin.Context) string

// ByClientIP charges requests to the client IP. c.ClientIP() ignores
// forwarding headers because the router trusts no proxies.
func ByClientIP(c *gin.Context) string { return c.ClientIP() }

// ByUser charges authenticated requests to the user ID and falls back to
// the client IP.
func ByUser(c *gin.Context) string {
	if id := c.GetString(UserIDKey); id != "" {
		return "user:" + id
	}
	return c.ClientIP()
}

// RateLimiter implements a token bucket per key.
type RateLimiter struct {
	buckets map[string]*bucket
	mu      sync.Mutex
	rate    float64
	burst   float64
	key     KeyFunc
}

type bucket struct {
	tokens   float64
	lastFill time.Time
}

func (rl *RateLimiter) allow(b *bucket, now time.Time) bool {
	b.tokens += now.Sub(b.lastFill).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastFill = now

	if b.tokens < 1 {
		return false
	}

	b.tokens--
	return true
}

// NewRateLimiter creates a RateLimiter allowing ratePerSec sustained requests
// with the given burst per key. A nil key charges by client IP. Stale
// buckets are evicted until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec float64, burst int, key KeyFunc) *RateLimiter {
	if key == nil {
		key = ByClientIP
	}

	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    ratePerSec,
		burst:   float64(burst),
		key:     key,
	}
	go rl.startCleanup(ctx)

	return rl
}

func (rl *RateLimiter) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	const maxAge = 10 * time.Minute

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for k, b := range rl.buckets {
				if now.Sub(b.lastFill) > maxAge {
					delete(rl.buckets, k)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Handler returns Gin middleware that applies the limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		k := rl.key(c)
		now := time.Now()

		rl.mu.Lock()
		b, ok := rl.buckets[k]
		if !ok {
			if len(rl.buckets) >= maxBuckets {
				rl.mu.Unlock()
				respondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")
				return
			}

			b = &bucket{tokens: rl.burst, lastFill: now}
			rl.buckets[k] = b
		}

		allowed := rl.allow(b, now)
		rl.mu.Unlock()

		if !allowed {
			c.Header("Retry-After", "1")
			respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}

		c.Next()
	}
}
