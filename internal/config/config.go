package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes"`
	// TrustedProxies feeds gin's client IP resolution for rate limiting.
	TrustedProxies []string `json:"trusted_proxies,omitempty"`
}

type LLMConfig struct {
	// Provider is one of "ollama", "oai_http" or "mock".
	Provider string `json:"provider"`
	BaseURL  string `json:"base_url"`
	Model    string `json:"model"`
	// APIKey is optional; when set it is sent as `Authorization: Bearer <api_key>`.
	APIKey      string  `json:"api_key,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type ChatConfig struct {
	MaxSnippets  int `json:"max_snippets"`
	HistoryTurns int `json:"history_turns"`
}

type DBConfig struct {
	Driver string `json:"driver"`

	PostgresHost     string `json:"postgres_host,omitempty"`
	PostgresPort     string `json:"postgres_port,omitempty"`
	PostgresUser     string `json:"postgres_user,omitempty"`
	PostgresPassword string `json:"postgres_password,omitempty"`
	PostgresName     string `json:"postgres_name,omitempty"`
	PostgresSSLMode  string `json:"postgres_sslmode,omitempty"`

	SQLitePath string `json:"sqlite_path,omitempty"`

	SeedCatalog bool `json:"seed_catalog"`
}

type EmailConfig struct {
	SendGridAPIKey  string `json:"sendgrid_api_key,omitempty"`
	SendGridBaseURL string `json:"sendgrid_base_url,omitempty"`
	FromEmail       string `json:"from_email"`
	FromName        string `json:"from_name"`
	// NotifyEmail receives every contact and quote lead.
	NotifyEmail string   `json:"notify_email"`
	Timeout     Duration `json:"timeout"`
	MaxRetries  int      `json:"max_retries"`
}

type RedisConfig struct {
	Addr     string `json:"addr,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

type RateLimitConfig struct {
	Enabled bool `json:"enabled"`
	// Rates use limiter's formatted form, e.g. "20-M".
	ChatRate  string `json:"chat_rate"`
	LeadsRate string `json:"leads_rate"`
	Prefix    string `json:"prefix"`
}

type AuthConfig struct {
	AdminJWTSecret string `json:"admin_jwt_secret,omitempty"`
	Issuer         string `json:"issuer,omitempty"`
}

type TracingConfig struct {
	Enabled     bool    `json:"enabled"`
	Exporter    string  `json:"exporter"`
	Endpoint    string  `json:"endpoint,omitempty"`
	Insecure    bool    `json:"insecure"`
	SampleRatio float64 `json:"sample_ratio"`
	ServiceName string  `json:"service_name"`
	Environment string  `json:"environment,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type Config struct {
	Env       string          `json:"env"`
	LogLevel  string          `json:"log_level,omitempty"`
	HTTP      HTTPConfig      `json:"http"`
	LLM       LLMConfig       `json:"llm"`
	Chat      ChatConfig      `json:"chat"`
	DB        DBConfig        `json:"db"`
	Email     EmailConfig     `json:"email"`
	Redis     RedisConfig     `json:"redis"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Auth      AuthConfig      `json:"auth"`
	Tracing   TracingConfig   `json:"tracing"`
	Metrics   MetricsConfig   `json:"metrics"`
	CORS      CORSConfig      `json:"cors"`
}
