package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/voltera/site-backend/internal/inference/engine"
)

const (
	chatPath = "/api/chat"
	tagsPath = "/api/tags"
)

// Engine calls a local or remote Ollama server over its native JSON API.
type Engine struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg engine.Config) (*Engine, error) {
	return NewWithHTTPClient(cfg, nil)
}

func NewWithHTTPClient(cfg engine.Config, httpClient *http.Client) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ollama: base_url required")
	}
	if httpClient == nil {
		httpClient = engine.NewHTTPClient()
	}
	return &Engine{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: httpClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

func (e *Engine) Chat(ctx context.Context, model string, messages []engine.Message, opts engine.Options) (string, error) {
	msgs := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		role := strings.TrimSpace(m.Role)
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		msgs = append(msgs, chatMessage{Role: role, Content: content})
	}
	if len(msgs) == 0 {
		return "", errors.New("no messages")
	}

	req := chatRequest{Model: model, Messages: msgs, Stream: false}
	if opts.Temperature > 0 {
		req.Options = &chatOptions{Temperature: opts.Temperature}
	}

	var resp chatResponse
	if err := engine.DoJSON(ctx, e.httpClient, http.MethodPost, e.baseURL+chatPath, e.apiKey, req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama: %s", resp.Error)
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		return "", engine.ErrEmptyCompletion
	}
	return resp.Message.Content, nil
}

func (e *Engine) ListModels(ctx context.Context) ([]string, error) {
	var resp tagsResponse
	if err := engine.DoJSON(ctx, e.httpClient, http.MethodGet, e.baseURL+tagsPath, e.apiKey, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			name = strings.TrimSpace(m.Model)
		}
		if name != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}
