package oaihttp

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/voltera/site-backend/internal/inference/engine"
)

const (
	chatCompletionsPath = "/v1/chat/completions"
	modelsPath          = "/v1/models"
)

// Engine talks to any OpenAI-compatible server (vLLM, llama.cpp server, hosted APIs).
type Engine struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg engine.Config) (*Engine, error) {
	return NewWithHTTPClient(cfg, nil)
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg engine.Config, httpClient *http.Client) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("oai_http: base_url required")
	}
	// Accept base URLs that already carry the /v1 suffix.
	baseURL = strings.TrimSuffix(baseURL, "/v1")
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

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (e *Engine) Chat(ctx context.Context, model string, messages []engine.Message, opts engine.Options) (string, error) {
	chatMsgs := toChatMessages(messages)
	if len(chatMsgs) == 0 {
		return "", errors.New("no messages")
	}

	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    chatMsgs,
		Temperature: opts.Temperature,
	}

	var resp chatCompletionResponse
	if err := engine.DoJSON(ctx, e.httpClient, http.MethodPost, e.baseURL+chatCompletionsPath, e.apiKey, reqBody, &resp); err != nil {
		return "", err
	}

	text := extractChatText(resp)
	if strings.TrimSpace(text) == "" {
		return "", engine.ErrEmptyCompletion
	}
	return text, nil
}

func (e *Engine) ListModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := engine.DoJSON(ctx, e.httpClient, http.MethodGet, e.baseURL+modelsPath, e.apiKey, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		if id := strings.TrimSpace(m.ID); id != "" {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func toChatMessages(messages []engine.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		role := strings.TrimSpace(m.Role)
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		out = append(out, chatMessage{Role: role, Content: content})
	}
	return out
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}
