package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/canteenpulse/internal/domain/dto"
)

// client is one rate-limited caller: requests seen in the current window.
type client struct {
	windowStart time.Time
	count       int
}

// limiter is a fixed-window request counter keyed by client IP.
// State is per instance; multi-replica deployments limit per replica.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	window  time.Duration
	limit   int
	now     func() time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	return &limiter{
		clients: make(map[string]*client),
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// allow counts one request for key and reports whether it is within the limit.
// Entries idle for longer than a window are dropped while the lock is held.
func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[key]
	if !ok || now.Sub(cl.windowStart) >= l.window {
		if len(l.clients) > 1024 {
			l.evict(now)
		}
		cl = &client{windowStart: now}
		l.clients[key] = cl
	}
	cl.count++
	return cl.count <= l.limit
}

func (l *limiter) evict(now time.Time) {
	for k, cl := range l.clients {
		if now.Sub(cl.windowStart) >= l.window {
			delete(l.clients, k)
		}
	}
}

// RateLimiter allows up to perMinute requests per client IP in each
// one-minute window and answers 429 with an ErrorResponse beyond that.
// A non-positive perMinute disables limiting.
//
// Usage:
//
//	router.Use(middleware.RateLimiter(config.AppConfig.Server.RateLimitPerMinute))
func RateLimiter(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimiter(newLimiter(perMinute, time.Minute))
}

func rateLimiter(l *limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
