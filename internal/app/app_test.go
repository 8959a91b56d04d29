package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/platform/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderMock
	cfg.LLM.Model = "mock-1"
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "site.db")
	cfg.Auth.AdminJWTSecret = ""
	return cfg
}

func TestNewWiresMockStack(t *testing.T) {
	log := logger.Nop()
	a, err := New(context.Background(), testConfig(t), log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	if a.Services.Knowledge.Len() == 0 {
		t.Fatalf("knowledge base not loaded")
	}
	if a.Clients.SendGrid != nil {
		t.Fatalf("sendgrid client should be nil without an api key")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "Do you install solar panels?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/ev-charger-60kw", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("product status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status=%d body=%s", rec.Code, rec.Body.String())
	}

	// Admin routes are not mounted without a secret.
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admin status=%d want=404", rec.Code)
	}
}

func TestNewRejectsBadRate(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.ChatRate = "often"
	if _, err := New(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatalf("expected rate parse error")
	}
}

func TestNewShutsDownTracingWhenWiringFails(t *testing.T) {
	shutdowns := 0
	orig := initOTel
	initOTel = func(context.Context, *logger.Logger, config.TracingConfig, string) (func(context.Context) error, error) {
		return func(context.Context) error {
			shutdowns++
			return nil
		}, nil
	}
	t.Cleanup(func() { initOTel = orig })

	cfg := testConfig(t)
	cfg.RateLimit.LeadsRate = "sometimes"
	if _, err := New(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatalf("expected rate parse error")
	}
	if shutdowns != 1 {
		t.Fatalf("tracing shutdowns=%d want=1", shutdowns)
	}
}
