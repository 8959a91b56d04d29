package backend

import (
	"fmt"
	"strings"

	"github.com/voltera/site-backend/internal/config"
	"github.com/voltera/site-backend/internal/inference/engine"
	"github.com/voltera/site-backend/internal/inference/engine/mock"
	"github.com/voltera/site-backend/internal/inference/engine/ollama"
	"github.com/voltera/site-backend/internal/inference/engine/oaihttp"
)

// Backend is the configured language model: one engine plus the model name sent to it.
type Backend struct {
	Provider    string
	Model       string
	Temperature float64
	Engine      engine.Engine
}

func New(cfg config.LLMConfig) (*Backend, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("llm model required")
	}
	ecfg := engine.Config{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey}

	var (
		eng engine.Engine
		err error
	)
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", config.ProviderOllama:
		provider = config.ProviderOllama
		eng, err = ollama.New(ecfg)
	case "openai_http", config.ProviderOAI:
		provider = config.ProviderOAI
		eng, err = oaihttp.New(ecfg)
	case config.ProviderMock:
		eng = mock.New()
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &Backend{
		Provider:    provider,
		Model:       model,
		Temperature: cfg.Temperature,
		Engine:      eng,
	}, nil
}
