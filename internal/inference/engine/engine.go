package engine

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Options struct {
	Temperature float64
}

// Engine is a language-model backend. Chat performs exactly one upstream call.
type Engine interface {
	Chat(ctx context.Context, model string, messages []Message, opts Options) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

type Config struct {
	BaseURL string
	// APIKey is optional; when set it is sent as `Authorization: Bearer <api_key>`.
	APIKey string
}
