package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/voltera/site-backend/internal/inference/engine"
)

// Engine echoes the last user message. Used for local runs without a model server.
type Engine struct {
	Models []string
}

func New() *Engine {
	return &Engine{Models: []string{"mock-1"}}
}

func (e *Engine) Chat(ctx context.Context, model string, messages []engine.Message, opts engine.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, engine.RoleUser) {
			user = messages[i].Content
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	return fmt.Sprintf("mock: %s", user), nil
}

func (e *Engine) ListModels(ctx context.Context) ([]string, error) {
	return append([]string(nil), e.Models...), nil
}
