package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/voltera/site-backend/internal/http/handlers"
	httpMW "github.com/voltera/site-backend/internal/http/middleware"
	"github.com/voltera/site-backend/internal/observability"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	TrustedProxies []string
	AllowedOrigins []string
	MaxBodyBytes   int64

	Metrics     *observability.Metrics
	MetricsPath string

	// Nil limiters leave the route unlimited.
	ChatLimit  gin.HandlerFunc
	LeadsLimit gin.HandlerFunc
	// Nil disables the admin routes.
	AdminAuth *httpMW.AdminAuth

	HealthHandler  *httpH.HealthHandler
	ChatHandler    *httpH.ChatHandler
	CatalogHandler *httpH.CatalogHandler
	LeadHandler    *httpH.LeadHandler
	ContentHandler *httpH.ContentHandler
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxBodyBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Chat
		if cfg.ChatHandler != nil {
			api.GET("/chat", cfg.ChatHandler.Status)
			api.POST("/chat", withLimit(cfg.ChatLimit, cfg.ChatHandler.Send)...)
		}

		// Catalog
		if cfg.CatalogHandler != nil {
			api.GET("/products", cfg.CatalogHandler.ListProducts)
			api.GET("/products/:id", cfg.CatalogHandler.GetProduct)
			api.GET("/categories", cfg.CatalogHandler.ListCategories)
		}

		// Leads
		if cfg.LeadHandler != nil {
			api.POST("/contact", withLimit(cfg.LeadsLimit, cfg.LeadHandler.Contact)...)
			api.POST("/quote", withLimit(cfg.LeadsLimit, cfg.LeadHandler.Quote)...)
		}

		// Content
		if cfg.ContentHandler != nil {
			api.GET("/pages/:slug", cfg.ContentHandler.GetPage)
			api.GET("/sectors", cfg.ContentHandler.ListSectors)
		}
	}

	if cfg.AdminAuth != nil && cfg.LeadHandler != nil {
		admin := api.Group("/admin")
		admin.Use(cfg.AdminAuth.RequireAdmin())
		admin.GET("/leads", cfg.LeadHandler.List)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})
	return r, nil
}

func withLimit(limit gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{limit, h}
}
