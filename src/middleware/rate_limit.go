package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"insights-api/src/logger"
)

// rateLimiter is a fixed-window per-IP counter. Windows reset lazily on
// access, so an idle IP costs nothing after its entry is overwritten.
type rateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*clientWindow
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		window:  window,
		limit:   limit,
		clients: make(map[string]*clientWindow),
	}
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[clientIP]
	if !ok || now.After(cw.resetAt) {
		rl.clients[clientIP] = &clientWindow{count: 1, resetAt: now.Add(rl.window)}
		return true
	}

	cw.count++
	return cw.count <= rl.limit
}

// RateLimitMiddleware limits each client IP to 300 requests per minute
func RateLimitMiddleware() gin.HandlerFunc {
	limiter := newRateLimiter(300, time.Minute)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !limiter.allow(clientIP) {
			logger.WithField("client_ip", clientIP).Warn("rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too Many Requests",
				"retry_after": 60,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
