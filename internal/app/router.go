package app

import (
	"github.com/gin-gonic/gin"

	"github.com/voltera/site-backend/internal/config"
	httpserver "github.com/voltera/site-backend/internal/http"
	"github.com/voltera/site-backend/internal/observability"
	"github.com/voltera/site-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg *config.Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) (*gin.Engine, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Tracing.ServiceName,
		TracingEnabled: cfg.Tracing.Enabled,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxRequestBytes,
		Metrics:        metrics,
		MetricsPath:    cfg.Metrics.Path,
		ChatLimit:      middleware.ChatLimit,
		LeadsLimit:     middleware.LeadsLimit,
		AdminAuth:      middleware.AdminAuth,
		HealthHandler:  handlers.Health,
		ChatHandler:    handlers.Chat,
		CatalogHandler: handlers.Catalog,
		LeadHandler:    handlers.Lead,
		ContentHandler: handlers.Content,
	})
}
