//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"crs-booking-engine/internal/handler/middleware"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
)

func rateLimitedRouter(limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/bookings", limiter.Limit(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func post(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksAboveCap(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{MaxRequests: 5, Window: time.Minute}, clk)
	router := rateLimitedRouter(limiter)

	for i := range 5 {
		w := post(router, "/api/bookings")
		require.Equal(t, http.StatusCreated, w.Code, "request %d should pass", i+1)
	}

	w := post(router, "/api/bookings")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, time.Minute.String(), w.Header().Get("Retry-After"))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{MaxRequests: 1, Window: time.Minute}, clk)
	router := rateLimitedRouter(limiter)

	require.Equal(t, http.StatusCreated, post(router, "/api/bookings").Code)
	require.Equal(t, http.StatusTooManyRequests, post(router, "/api/bookings").Code)

	clk.Advance(time.Minute)
	require.Equal(t, http.StatusCreated, post(router, "/api/bookings").Code)
}
