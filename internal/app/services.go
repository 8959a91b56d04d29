package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/voltera/site-backend/internal/chat"
	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/knowledge"
	"github.com/voltera/site-backend/internal/observability"
	"github.com/voltera/site-backend/internal/pages"
	"github.com/voltera/site-backend/internal/platform/logger"
	"github.com/voltera/site-backend/internal/services"
	"github.com/voltera/site-backend/internal/services/seed"
)

type Services struct {
	Catalog      services.CatalogService
	Leads        services.LeadService
	Content      services.ContentService
	Knowledge    *knowledge.Store
	Orchestrator *chat.Orchestrator
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg *config.Config, clients Clients, reposet Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	catalog := services.NewCatalogService(db, log, reposet.Product)
	if cfg.DB.SeedCatalog {
		if _, err := catalog.Seed(ctx, seed.CatalogYAML); err != nil {
			return Services{}, fmt.Errorf("seed catalog: %w", err)
		}
	}

	content, err := services.NewContentService(log, seed.ContentYAML)
	if err != nil {
		return Services{}, fmt.Errorf("init content: %w", err)
	}

	notifier := services.NewLeadNotifier(log, clients.SendGrid, cfg.Email.NotifyEmail)
	var leadObserver services.LeadObserver
	if metrics != nil {
		leadObserver = metrics
	}
	leads := services.NewLeadService(db, log, reposet.Lead, reposet.Product, notifier, leadObserver)

	store, err := knowledge.LoadDefault()
	if err != nil {
		return Services{}, fmt.Errorf("load knowledge base: %w", err)
	}
	log.Info("Knowledge base loaded", "snippets", store.Len())

	selector := chat.NewSelector(log, store, catalog, pages.Default(), cfg.Chat.MaxSnippets)
	var chatObserver chat.Observer
	if metrics != nil {
		chatObserver = metrics
	}
	orch := chat.NewOrchestrator(log, selector, clients.LLM.Engine, chat.OrchestratorConfig{
		Model:        clients.LLM.Model,
		Temperature:  clients.LLM.Temperature,
		MaxSnippets:  cfg.Chat.MaxSnippets,
		HistoryTurns: cfg.Chat.HistoryTurns,
	}, chatObserver)

	return Services{
		Catalog:      catalog,
		Leads:        leads,
		Content:      content,
		Knowledge:    store,
		Orchestrator: orch,
	}, nil
}
