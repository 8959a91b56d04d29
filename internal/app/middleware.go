package app

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/http/middleware"
	"github.com/voltera/site-backend/internal/observability"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type Middleware struct {
	ChatLimit  gin.HandlerFunc
	LeadsLimit gin.HandlerFunc
	AdminAuth  *middleware.AdminAuth
}

func wireMiddleware(log *logger.Logger, cfg *config.Config, clients Clients, metrics *observability.Metrics) (Middleware, error) {
	log.Info("Wiring middleware...")
	var mw Middleware

	if cfg.RateLimit.Enabled {
		var rl *middleware.RateLimiter
		var err error
		// Pass an untyped nil so the limiter falls back to memory.
		if clients.Redis != nil {
			rl, err = middleware.NewRateLimiter(log, clients.Redis, cfg.RateLimit.Prefix, metrics)
		} else {
			rl, err = middleware.NewRateLimiter(log, nil, cfg.RateLimit.Prefix, metrics)
		}
		if err != nil {
			return Middleware{}, err
		}
		if mw.ChatLimit, err = rl.Limit("chat", cfg.RateLimit.ChatRate, middleware.FlatErrorBody()); err != nil {
			return Middleware{}, err
		}
		if mw.LeadsLimit, err = rl.Limit("leads", cfg.RateLimit.LeadsRate); err != nil {
			return Middleware{}, err
		}
	}

	if strings.TrimSpace(cfg.Auth.AdminJWTSecret) != "" {
		auth, err := middleware.NewAdminAuth(log, cfg.Auth.AdminJWTSecret, cfg.Auth.Issuer)
		if err != nil {
			return Middleware{}, fmt.Errorf("init admin auth: %w", err)
		}
		mw.AdminAuth = auth
	} else {
		log.Info("ADMIN_JWT_SECRET not set; admin routes disabled")
	}
	return mw, nil
}
