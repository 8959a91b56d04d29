package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voltera/site-backend/internal/app"
	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/http/middleware"
	"github.com/voltera/site-backend/internal/platform/logger"
)

func main() {
	var adminSubject string
	var adminTTL time.Duration
	flag.StringVar(&adminSubject, "issue-admin-token", "", "print an admin bearer token for this subject and exit")
	flag.DurationVar(&adminTTL, "admin-token-ttl", 24*time.Hour, "lifetime of the issued admin token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewWithOptions(logger.Options{Mode: cfg.Env, Level: cfg.LogLevel, Redact: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if adminSubject != "" {
		auth, err := middleware.NewAdminAuth(log, cfg.Auth.AdminJWTSecret, cfg.Auth.Issuer)
		if err != nil {
			log.Error("Cannot issue admin token", "error", err)
			os.Exit(1)
		}
		token, err := auth.Issue(adminSubject, adminTTL)
		if err != nil {
			log.Error("Cannot issue admin token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	log.Info("Starting site backend", "env", cfg.Env, "addr", cfg.HTTP.Addr, "llm_provider", cfg.LLM.Provider, "llm_model", cfg.LLM.Model)
	if err := application.Run(ctx); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
