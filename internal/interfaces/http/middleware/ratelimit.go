package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window request counter per key. Expired windows
// are swept on access, so the limiter owns no goroutine.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type window struct {
	used  int
	start time.Time
}

// NewRateLimiter allows limit requests per key in each window
func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  per,
		now:     time.Now,
	}
}

// Allow consumes one request of key's budget and returns the requests left.
// ok is false once the budget is exhausted.
func (rl *RateLimiter) Allow(key string) (remaining int, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, exists := rl.windows[key]
	if !exists || now.Sub(w.start) >= rl.window {
		w = &window{start: now}
		rl.windows[key] = w
	}
	if w.used >= rl.limit {
		return 0, false
	}
	w.used++
	return rl.limit - w.used, true
}

// RetryAfter returns how long until key's window resets
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		return 0
	}
	return max(rl.window-rl.now().Sub(w.start), 0)
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < 2*rl.window {
		return
	}
	rl.lastSweep = now
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.window {
			delete(rl.windows, key)
		}
	}
}

// ClientKey keys requests by caller IP and x-client-id. The header is caller
// supplied, so it only partitions an IP's budget and never spends another
// caller's.
func ClientKey(c *gin.Context) string {
	key := "ip:" + c.ClientIP()
	if id := c.GetHeader(logger.ClientIDHeader); id != "" {
		key += "|client:" + id
	}
	return key
}

// RateLimit rejects requests beyond the limiter's budget with 429. A nil
// limiter disables the check.
func RateLimit(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if keyFunc == nil {
		keyFunc = ClientKey
	}
	return func(c *gin.Context) {
		key := keyFunc(c)
		remaining, ok := limiter.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			retry := limiter.RetryAfter(key)
			c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("Too many requests", "Please try again later"))
			return
		}
		c.Next()
	}
}
