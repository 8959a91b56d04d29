package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/data/db"
	httpserver "github.com/voltera/site-backend/internal/http"
	"github.com/voltera/site-backend/internal/observability"
	"github.com/voltera/site-backend/internal/platform/logger"
)

const Version = "0.1.0"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      *config.Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	dbService    *db.Service
	server       *httpserver.Server
	otelShutdown func(context.Context) error
}

// initOTel is swapped in tests.
var initOTel = observability.InitOTel

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}

	otelShutdown, err := initOTel(ctx, log, cfg.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	stopTracing := func() {
		if shutdownErr := otelShutdown(context.Background()); shutdownErr != nil {
			log.Warn("tracing shutdown failed", "error", shutdownErr)
		}
	}

	dbService, err := db.Open(cfg.DB, log)
	if err != nil {
		stopTracing()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		stopTracing()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	clientset, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		stopTracing()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(ctx, theDB, log, cfg, clientset, reposet, metrics)
	if err != nil {
		clientset.Close()
		_ = dbService.Close()
		stopTracing()
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, theDB, clientset, serviceset)
	middleware, err := wireMiddleware(log, cfg, clientset, metrics)
	if err != nil {
		clientset.Close()
		_ = dbService.Close()
		stopTracing()
		return nil, err
	}
	router, err := wireRouter(log, cfg, handlerset, middleware, metrics)
	if err != nil {
		clientset.Close()
		_ = dbService.Close()
		stopTracing()
		return nil, err
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Clients:      clientset,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
		server: httpserver.NewServer(log, router, httpserver.ServerConfig{
			Addr:              cfg.HTTP.Addr,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
			IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
			ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
		}),
	}, nil
}

// Run serves HTTP and probes the model backend once in the background; it
// returns when ctx is cancelled and the server has drained.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(gctx)
	})
	g.Go(func() error {
		a.probeModelBackend(gctx)
		return nil
	})
	return g.Wait()
}

func (a *App) probeModelBackend(ctx context.Context) {
	b := a.Clients.LLM
	models, err := b.Engine.ListModels(ctx)
	if err != nil {
		a.Log.Warn("Language model backend not reachable at startup; chat will return 503 until it is", "provider", b.Provider, "base_url", a.Cfg.LLM.BaseURL, "error", err)
		return
	}
	a.Log.Info("Language model backend reachable", "provider", b.Provider, "model", b.Model, "installed_models", len(models))
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	a.Log.Sync()
}
