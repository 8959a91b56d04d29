package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/voltera/site-backend/internal/http/response"
	"github.com/voltera/site-backend/internal/observability"
	"github.com/voltera/site-backend/internal/platform/logger"
)

// RateLimiter hands out per-scope, per-client-IP limit middlewares that share
// one backing store.
type RateLimiter struct {
	log     *logger.Logger
	store   limiter.Store
	metrics *observability.Metrics
	backend string
}

// NewRateLimiter uses Redis when rdb is non-nil, otherwise an in-process store.
func NewRateLimiter(log *logger.Logger, rdb redis.UniversalClient, prefix string, metrics *observability.Metrics) (*RateLimiter, error) {
	if strings.TrimSpace(prefix) == "" {
		prefix = "site_rl"
	}
	rl := &RateLimiter{log: log.With("Middleware", "RateLimiter"), metrics: metrics}
	if rdb != nil {
		store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix:   prefix,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("rate limit redis store: %w", err)
		}
		rl.store = store
		rl.backend = "redis"
	} else {
		rl.store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: time.Minute,
		})
		rl.backend = "memory"
	}
	rl.log.Info("Rate limiter ready", "store", rl.backend)
	return rl, nil
}

type limitOptions struct {
	flatError bool
}

type LimitOption func(*limitOptions)

// FlatErrorBody replies to blocked requests with {"error": "...", "message": "..."}
// instead of the error envelope, matching the chat routes.
func FlatErrorBody() LimitOption {
	return func(o *limitOptions) { o.flatError = true }
}

// Limit returns a middleware enforcing formatted (e.g. "20-M") per client IP
// within scope.
func (rl *RateLimiter) Limit(scope, formatted string, opts ...LimitOption) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", scope, err)
	}
	var o limitOptions
	for _, opt := range opts {
		opt(&o)
	}
	instance := limiter.New(rl.store, rate)
	return mgin.NewMiddleware(
		instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return scope + ":" + c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			rl.metrics.ObserveRateLimited(scope)
			rl.log.Warn("Rate limit exceeded", "scope", scope, "client_ip", c.ClientIP())
			if o.flatError {
				c.JSON(http.StatusTooManyRequests, gin.H{
					"error":   "Too many requests",
					"message": "Please wait a moment before sending another message.",
				})
				return
			}
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", fmt.Errorf("too many requests, please slow down"))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// Fail open: a broken limiter store must not take the site down.
			rl.log.Error("Rate limiter store failed", "scope", scope, "error", err)
			c.Next()
		}),
	), nil
}

func (rl *RateLimiter) Backend() string { return rl.backend }
