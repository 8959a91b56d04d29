package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/http/handlers"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Chat    *handlers.ChatHandler
	Catalog *handlers.CatalogHandler
	Lead    *handlers.LeadHandler
	Content *handlers.ContentHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, db *gorm.DB, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")

	probes := []handlers.Probe{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if clients.Redis != nil {
		probes = append(probes, handlers.Probe{
			Name:  "redis",
			Check: func(ctx context.Context) error { return clients.Redis.Ping(ctx).Err() },
		})
	}

	return Handlers{
		Health: handlers.NewHealthHandler(probes...),
		Chat: handlers.NewChatHandler(log, services.Orchestrator, clients.LLM.Engine, handlers.ChatBackendInfo{
			Provider: clients.LLM.Provider,
			Model:    clients.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
		}),
		Catalog: handlers.NewCatalogHandler(services.Catalog),
		Lead:    handlers.NewLeadHandler(services.Leads),
		Content: handlers.NewContentHandler(services.Content),
	}
}
