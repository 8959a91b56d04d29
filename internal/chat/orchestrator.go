package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/voltera/site-backend/internal/inference/engine"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type Stage string

const (
	StageIdle             Stage = "idle"
	StageContextGathering Stage = "context_gathering"
	StagePromptAssembly   Stage = "prompt_assembly"
	StageBackendCall      Stage = "backend_call"
	StageResponded        Stage = "responded"
	StageFailed           Stage = "failed"
)

const contactFallback = "I can't answer that here, but our team will be happy to help. Please reach out through the contact form."

type Request struct {
	Message   string
	History   []Turn
	ProductID string
	PagePath  string
}

type Response struct {
	Text           string
	ContextUsed    bool
	SuggestContact bool
	SnippetCount   int
}

type ContextSelector interface {
	SelectContext(ctx context.Context, query, productID, pagePath string, maxSnippets int) AssembledContext
}

// Observer receives the outcome of each orchestrated turn. Optional.
type Observer interface {
	ObserveChat(outcome string, backendLatency time.Duration, snippetCount int)
}

type OrchestratorConfig struct {
	Model        string
	Temperature  float64
	MaxSnippets  int
	HistoryTurns int
}

type Orchestrator struct {
	log      *logger.Logger
	selector ContextSelector
	engine   engine.Engine
	cfg      OrchestratorConfig
	observer Observer
}

func NewOrchestrator(log *logger.Logger, selector ContextSelector, eng engine.Engine, cfg OrchestratorConfig, observer Observer) *Orchestrator {
	if cfg.MaxSnippets <= 0 {
		cfg.MaxSnippets = DefaultMaxSnippets
	}
	if cfg.HistoryTurns < 0 {
		cfg.HistoryTurns = 0
	}
	return &Orchestrator{
		log:      log.With("component", "ChatOrchestrator"),
		selector: selector,
		engine:   eng,
		cfg:      cfg,
		observer: observer,
	}
}

// Respond turns one user message into one assistant reply with a single
// backend call. Errors match ErrBackendUnavailable or *BackendError where applicable.
func (o *Orchestrator) Respond(ctx context.Context, req Request) (*Response, error) {
	log := o.log
	log.Debug("chat stage", "stage", StageIdle)

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	log.Debug("chat stage", "stage", StageContextGathering, "product_id", req.ProductID, "page_path", req.PagePath)
	ac := o.selector.SelectContext(ctx, message, req.ProductID, req.PagePath, o.cfg.MaxSnippets)

	log.Debug("chat stage", "stage", StagePromptAssembly, "snippets", ac.SnippetCount, "framed", ac.Framing != "")
	messages := BuildMessages(ac, req.History, message, o.cfg.HistoryTurns)

	log.Debug("chat stage", "stage", StageBackendCall, "model", o.cfg.Model, "messages", len(messages))
	start := time.Now()
	reply, err := o.engine.Chat(ctx, o.cfg.Model, messages, engine.Options{Temperature: o.cfg.Temperature})
	latency := time.Since(start)
	if errors.Is(err, engine.ErrEmptyCompletion) {
		reply, err = "", nil
	}
	if err != nil {
		cerr := classify(err)
		log.Warn("chat stage", "stage", StageFailed, "outcome", outcomeOf(cerr), "latency_ms", latency.Milliseconds(), "error", err)
		o.observe(outcomeOf(cerr), latency, ac.SnippetCount)
		return nil, cerr
	}

	text, marked := extractContactMarker(reply)
	if text == "" {
		text = contactFallback
		marked = true
	}

	resp := &Response{
		Text:           text,
		ContextUsed:    !ac.Empty(),
		SuggestContact: marked || HasPricingIntent(message),
		SnippetCount:   ac.SnippetCount,
	}
	log.Debug("chat stage", "stage", StageResponded, "latency_ms", latency.Milliseconds(), "suggest_contact", resp.SuggestContact)
	o.observe("ok", latency, ac.SnippetCount)
	return resp, nil
}

func (o *Orchestrator) observe(outcome string, latency time.Duration, snippets int) {
	if o.observer != nil {
		o.observer.ObserveChat(outcome, latency, snippets)
	}
}

func outcomeOf(err error) string {
	var be *BackendError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBackendUnavailable):
		return "unavailable"
	case errors.As(err, &be):
		return "backend_error"
	default:
		return "error"
	}
}
