package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-realworld/internal/container"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
)

// limits reads the configured rate limits, falling back to the defaults
// used in development.
func limits() (auth, write int, window time.Duration) {
	auth, write, window = 10, 60, time.Minute
	if cfg := container.GetConfig(); cfg != nil {
		auth, write, window = cfg.RateLimitAuth, cfg.RateLimitWrite, cfg.RateLimitWindow
	}
	return auth, write, window
}

// authLimiter limits credential endpoints per IP and route, with no bypass.
func authLimiter() gin.HandlerFunc {
	auth, _, window := limits()
	return middleware.RateLimit(container.GetRedis(), auth, window, middleware.KeyByIPAndPath(), nil)
}

// writeLimiter limits mutating requests per user. Reads pass through.
func writeLimiter() gin.HandlerFunc {
	_, write, window := limits()
	return middleware.RateLimit(container.GetRedis(), write, window, middleware.KeyByUserID(), middleware.WritesOnly())
}
