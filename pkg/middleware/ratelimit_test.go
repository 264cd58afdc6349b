package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/wyfcoding/ecommerce/pkg/ratelimit"
)

type stubLimiter struct {
	result *ratelimit.Result
	err    error
}

func (s *stubLimiter) Allow(_ context.Context, _ string, _ ratelimit.Limit) (*ratelimit.Result, error) {
	return s.result, s.err
}

func performRequest(limiter ratelimit.RateLimiter) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(limiter, ratelimit.Limit{Rate: 10, Period: time.Second, Burst: 10}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowedSetsHeaders(t *testing.T) {
	w := performRequest(&stubLimiter{result: &ratelimit.Result{
		Allowed:    true,
		Remaining:  7,
		ResetAfter: 1500 * time.Millisecond,
	}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitDeniedUsesRetryAfter(t *testing.T) {
	w := performRequest(&stubLimiter{result: &ratelimit.Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: 2 * time.Second,
		ResetAfter: 9 * time.Second,
	}})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
}

func TestRateLimitDeniedFallsBackToResetAfter(t *testing.T) {
	// redis_rate 对不可等待的请求返回 RetryAfter=-1
	w := performRequest(&stubLimiter{result: &ratelimit.Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: -1,
		ResetAfter: 3 * time.Second,
	}})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	w := performRequest(&stubLimiter{err: errors.New("redis down")})

	assert.Equal(t, http.StatusOK, w.Code)
}
