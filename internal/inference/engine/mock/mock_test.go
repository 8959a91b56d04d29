package mock

import (
	"context"
	"testing"

	"github.com/voltera/site-backend/internal/inference/engine"
)

func TestChatEchoesLastUserMessage(t *testing.T) {
	e := New()
	out, err := e.Chat(context.Background(), "mock-1", []engine.Message{
		{Role: engine.RoleUser, Content: "first"},
		{Role: engine.RoleAssistant, Content: "reply"},
		{Role: engine.RoleUser, Content: "second"},
	}, engine.Options{})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "mock: second" {
		t.Fatalf("out=%q", out)
	}
}

func TestChatHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Chat(ctx, "m", nil, engine.Options{}); err == nil {
		t.Fatalf("expected context error")
	}
}
