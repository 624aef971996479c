package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/logger"
	"github.com/ymango/ymango/pkg/response"
)

// ErrTooManyRequests is returned once a key exhausts its window.
var ErrTooManyRequests = apperrors.New(apperrors.ErrRateLimit.Code, "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.", http.StatusTooManyRequests)

// Limiter enforces a fixed-window limit per key.
type Limiter struct {
	store  RateStore
	limit  int
	window time.Duration
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// NewLimiter returns nil when limit or window disable limiting; a nil Limiter allows
// everything.
func NewLimiter(store RateStore, limit int, window time.Duration) *Limiter {
	if store == nil || limit <= 0 || window <= 0 {
		return nil
	}
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow counts one hit against key. Store failures fail open.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	if l == nil {
		return Decision{Allowed: true}
	}

	count, ttl, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		logger.WithModule("ratelimit").Warn("rate store unavailable", zap.String("key", key), zap.Error(err))
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}
	}

	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(0, l.limit-count),
		ResetIn:   ttl,
	}
}

// Apply writes the X-RateLimit headers for d and, when the key is over its limit,
// aborts with ErrTooManyRequests. It reports whether the request may proceed.
func (d Decision) Apply(c *gin.Context) bool {
	if d.Limit > 0 {
		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(d.ResetIn.Seconds())))
	}
	if d.Allowed {
		return true
	}
	c.Header("Retry-After", strconv.Itoa(int(d.ResetIn.Round(time.Second).Seconds())))
	response.Error(c, ErrTooManyRequests)
	return false
}

// RateLimit limits requests per (client IP, route) within the limiter's window.
func RateLimit(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP() + "|" + c.FullPath()
		if !limiter.Allow(c.Request.Context(), key).Apply(c) {
			return
		}
		c.Next()
	}
}
