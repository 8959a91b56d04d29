package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/voltera/site-backend/internal/platform/envutil"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		if strings.TrimSpace(u) == "" {
			d.Duration = 0
			return nil
		}
		dd, err := time.ParseDuration(u)
		if err != nil {
			return err
		}
		d.Duration = dd
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

const (
	ProviderOllama = "ollama"
	ProviderOAI    = "oai_http"
	ProviderMock   = "mock"
)

func Default() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
		},
		LLM: LLMConfig{
			Provider:    ProviderOllama,
			BaseURL:     "http://localhost:11434",
			Model:       "llama3.1",
			Temperature: 0.3,
		},
		Chat: ChatConfig{
			MaxSnippets:  5,
			HistoryTurns: 10,
		},
		DB: DBConfig{
			Driver:          "sqlite",
			PostgresHost:    "localhost",
			PostgresPort:    "5432",
			PostgresUser:    "postgres",
			PostgresName:    "voltera_site",
			PostgresSSLMode: "disable",
			SQLitePath:      "site.db",
			SeedCatalog:     true,
		},
		Email: EmailConfig{
			SendGridBaseURL: "https://api.sendgrid.com",
			FromEmail:       "website@voltera.example",
			FromName:        "Voltera Website",
			NotifyEmail:     "sales@voltera.example",
			Timeout:         Duration{Duration: 30 * time.Second},
			MaxRetries:      2,
		},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			ChatRate:  "20-M",
			LeadsRate: "5-M",
			Prefix:    "site_rl",
		},
		Auth: AuthConfig{
			Issuer: "voltera-site",
		},
		Tracing: TracingConfig{
			Exporter:    "otlp",
			SampleRatio: 1,
			ServiceName: "voltera-site-backend",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Load builds the process configuration: .env, defaults, optional JSON file
// (SITE_CONFIG_PATH or ./config/config.json), then environment overrides.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()

	cfgPath := strings.TrimSpace(os.Getenv("SITE_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.json")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	if port := envutil.String("PORT", ""); port != "" && os.Getenv("HTTP_ADDR") == "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.HTTP.ShutdownTimeout.Duration = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout.Duration)
	cfg.HTTP.TrustedProxies = envutil.List("HTTP_TRUSTED_PROXIES", cfg.HTTP.TrustedProxies)

	cfg.LLM.Provider = envutil.String("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.BaseURL = envutil.String("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = envutil.String("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.APIKey = envutil.String("LLM_API_KEY", cfg.LLM.APIKey)

	cfg.Chat.MaxSnippets = envutil.Int("CHAT_MAX_SNIPPETS", cfg.Chat.MaxSnippets)
	cfg.Chat.HistoryTurns = envutil.Int("CHAT_HISTORY_TURNS", cfg.Chat.HistoryTurns)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.PostgresHost = envutil.String("POSTGRES_HOST", cfg.DB.PostgresHost)
	cfg.DB.PostgresPort = envutil.String("POSTGRES_PORT", cfg.DB.PostgresPort)
	cfg.DB.PostgresUser = envutil.String("POSTGRES_USER", cfg.DB.PostgresUser)
	cfg.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", cfg.DB.PostgresPassword)
	cfg.DB.PostgresName = envutil.String("POSTGRES_NAME", cfg.DB.PostgresName)
	cfg.DB.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.PostgresSSLMode)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)
	cfg.DB.SeedCatalog = envutil.Bool("DB_SEED_CATALOG", cfg.DB.SeedCatalog)

	cfg.Email.SendGridAPIKey = envutil.String("SENDGRID_API_KEY", cfg.Email.SendGridAPIKey)
	cfg.Email.SendGridBaseURL = envutil.String("SENDGRID_BASE_URL", cfg.Email.SendGridBaseURL)
	cfg.Email.FromEmail = envutil.String("SENDGRID_FROM_EMAIL", cfg.Email.FromEmail)
	cfg.Email.FromName = envutil.String("SENDGRID_FROM_NAME", cfg.Email.FromName)
	cfg.Email.Timeout.Duration = envutil.Duration("SENDGRID_TIMEOUT", cfg.Email.Timeout.Duration)
	cfg.Email.MaxRetries = envutil.Int("SENDGRID_MAX_RETRIES", cfg.Email.MaxRetries)
	cfg.Email.NotifyEmail = envutil.String("LEADS_NOTIFY_EMAIL", cfg.Email.NotifyEmail)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)

	cfg.RateLimit.Enabled = envutil.Bool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.ChatRate = envutil.String("RATE_LIMIT_CHAT", cfg.RateLimit.ChatRate)
	cfg.RateLimit.LeadsRate = envutil.String("RATE_LIMIT_LEADS", cfg.RateLimit.LeadsRate)
	cfg.RateLimit.Prefix = envutil.String("RATE_LIMIT_PREFIX", cfg.RateLimit.Prefix)

	cfg.Auth.AdminJWTSecret = envutil.String("ADMIN_JWT_SECRET", cfg.Auth.AdminJWTSecret)
	cfg.Auth.Issuer = envutil.String("ADMIN_JWT_ISSUER", cfg.Auth.Issuer)

	cfg.Tracing.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = envutil.String("OTEL_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Tracing.Insecure)
	cfg.Tracing.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Tracing.ServiceName)
	cfg.Tracing.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Tracing.Environment)
	if v := envutil.String("OTEL_SAMPLE_RATIO", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tracing.SampleRatio = f
		}
	}

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Path = envutil.String("METRICS_PATH", cfg.Metrics.Path)

	cfg.CORS.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)
}

func (cfg *Config) normalize() error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 1 << 20
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	switch cfg.LLM.Provider {
	case "", ProviderOllama:
		cfg.LLM.Provider = ProviderOllama
	case "openai_http", "openai", ProviderOAI:
		cfg.LLM.Provider = ProviderOAI
	case ProviderMock:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLM.Provider)
	}
	cfg.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.LLM.BaseURL), "/")
	cfg.LLM.Model = strings.TrimSpace(cfg.LLM.Model)
	cfg.LLM.APIKey = strings.TrimSpace(cfg.LLM.APIKey)
	if cfg.LLM.Provider != ProviderMock && cfg.LLM.BaseURL == "" {
		return fmt.Errorf("llm provider %q requires LLM_BASE_URL", cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		return errors.New("LLM_MODEL is required")
	}

	if cfg.Chat.MaxSnippets <= 0 {
		cfg.Chat.MaxSnippets = 5
	}
	if cfg.Chat.HistoryTurns < 0 {
		cfg.Chat.HistoryTurns = 0
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	switch cfg.DB.Driver {
	case "postgres", "sqlite":
	case "postgresql", "pg":
		cfg.DB.Driver = "postgres"
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if cfg.Email.MaxRetries < 0 {
		cfg.Email.MaxRetries = 0
	}
	if strings.TrimSpace(cfg.Email.NotifyEmail) == "" {
		return errors.New("LEADS_NOTIFY_EMAIL is required")
	}

	if strings.TrimSpace(cfg.Metrics.Path) == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Tracing.SampleRatio <= 0 || cfg.Tracing.SampleRatio > 1 {
		cfg.Tracing.SampleRatio = 1
	}
	if strings.TrimSpace(cfg.Tracing.Environment) == "" {
		cfg.Tracing.Environment = cfg.Env
	}
	return nil
}

// PostgresDSN renders the gorm/pgx DSN for the postgres driver.
func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresName, c.PostgresPort, c.PostgresSSLMode)
}
