package middleware

import (
	"net/http"
	"sync"
	"time"

	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

type rateLimitWindow struct {
	start time.Time
	count int
}

// RateLimiter applies a fixed-window request cap per client and endpoint.
// Windows are kept in memory, so the cap is per process; that is enough to
// blunt accidental finalize storms from a misbehaving client.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateLimitWindow
	cfg     config.RateLimitConfig
	clock   clock.Clock
}

func NewRateLimiter(cfg config.RateLimitConfig, clk clock.Clock) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*rateLimitWindow),
		cfg:     cfg,
		clock:   clk,
	}
}

func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		if !r.allow(key) {
			c.Header("Retry-After", r.cfg.Window.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) allow(key string) bool {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[key]
	if !ok || now.Sub(w.start) >= r.cfg.Window {
		r.windows[key] = &rateLimitWindow{start: now, count: 1}
		r.pruneLocked(now)
		return true
	}

	if w.count >= r.cfg.MaxRequests {
		return false
	}
	w.count++
	return true
}

// pruneLocked drops windows that lapsed more than one window ago so the map
// does not grow with client churn. Called with the mutex held.
func (r *RateLimiter) pruneLocked(now time.Time) {
	if len(r.windows) < 1024 {
		return
	}
	for key, w := range r.windows {
		if now.Sub(w.start) >= 2*r.cfg.Window {
			delete(r.windows, key)
		}
	}
}
