package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/inference/backend"
	"github.com/voltera/site-backend/internal/platform/logger"
	"github.com/voltera/site-backend/internal/platform/sendgrid"
)

type Clients struct {
	LLM      *backend.Backend
	Redis    *redis.Client
	SendGrid sendgrid.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Language model
	llm, err := backend.New(cfg.LLM)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm backend: %w", err)
	}

	// Redis
	var rdb *redis.Client
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
	}

	// SendGrid
	var sg sendgrid.Client
	if strings.TrimSpace(cfg.Email.SendGridAPIKey) != "" {
		sg, err = sendgrid.New(log, sendgrid.Config{
			APIKey:           cfg.Email.SendGridAPIKey,
			BaseURL:          cfg.Email.SendGridBaseURL,
			DefaultFromEmail: cfg.Email.FromEmail,
			DefaultFromName:  cfg.Email.FromName,
			Timeout:          cfg.Email.Timeout.Duration,
			MaxRetries:       cfg.Email.MaxRetries,
		})
		if err != nil {
			if rdb != nil {
				_ = rdb.Close()
			}
			return Clients{}, fmt.Errorf("init sendgrid: %w", err)
		}
	} else {
		log.Warn("SENDGRID_API_KEY not set; lead notifications will only be logged")
	}

	return Clients{LLM: llm, Redis: rdb, SendGrid: sg}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
