package chat

import (
	"regexp"
	"strings"
	"testing"

	"github.com/voltera/site-backend/internal/inference/engine"
)

func TestSystemPromptForbidsPrices(t *testing.T) {
	p := SystemPrompt(AssembledContext{})
	for _, want := range []string{"Never quote prices", "currency amounts", "contact or quote request form", ContactMarker} {
		if !strings.Contains(p, want) {
			t.Fatalf("persona missing %q", want)
		}
	}
	if regexp.MustCompile(`[$€£]\s?\d`).MatchString(p) {
		t.Fatalf("persona itself contains a currency amount")
	}
}

func TestSystemPromptEmbedsContext(t *testing.T) {
	p := SystemPrompt(AssembledContext{
		Framing:  "The user is currently on the about page.",
		Snippets: []string{"one", "two"},
	})
	if !strings.Contains(p, "\n\nThe user is currently on the about page.") {
		t.Fatalf("missing framing: %q", p)
	}
	if !strings.HasSuffix(p, "Relevant information:\n- one\n- two") {
		t.Fatalf("missing snippets: %q", p)
	}
	if strings.Contains(SystemPrompt(AssembledContext{}), "Relevant information") {
		t.Fatalf("empty context should not render the information block")
	}
}

func TestBuildMessagesHistory(t *testing.T) {
	history := []Turn{
		{Sender: "user", Text: "t1"},
		{Sender: "support", Text: "t2"},
		{Sender: "user", Text: "  "},
		{Sender: "USER", Text: "t3"},
		{Sender: "bot", Text: "t4"},
	}
	msgs := BuildMessages(AssembledContext{}, history, " new question ", 2)
	if len(msgs) != 4 {
		t.Fatalf("len=%d", len(msgs))
	}
	if msgs[0].Role != engine.RoleSystem {
		t.Fatalf("first role=%s", msgs[0].Role)
	}
	if msgs[1].Role != engine.RoleUser || msgs[1].Content != "t3" {
		t.Fatalf("msgs[1]=%+v", msgs[1])
	}
	if msgs[2].Role != engine.RoleAssistant || msgs[2].Content != "t4" {
		t.Fatalf("msgs[2]=%+v", msgs[2])
	}
	if msgs[3].Role != engine.RoleUser || msgs[3].Content != "new question" {
		t.Fatalf("msgs[3]=%+v", msgs[3])
	}

	if got := BuildMessages(AssembledContext{}, history, "q", 0); len(got) != 2 {
		t.Fatalf("zero turns: len=%d", len(got))
	}
}

func TestHasPricingIntent(t *testing.T) {
	yes := []string{
		"What is the price of the EV charger?",
		"how much does a heat pump cost",
		"Can I get a quote?",
		"Is it expensive?",
	}
	no := []string{
		"hello",
		"Tell me about this",
		"do you install batteries",
		"priceless views",
		"What services do you offer?",
		"Which sectors does your offer cover?",
	}
	for _, m := range yes {
		if !HasPricingIntent(m) {
			t.Fatalf("expected pricing intent: %q", m)
		}
	}
	for _, m := range no {
		if HasPricingIntent(m) {
			t.Fatalf("unexpected pricing intent: %q", m)
		}
	}
}

func TestExtractContactMarker(t *testing.T) {
	text, ok := extractContactMarker("Please use the contact form. [[CONTACT]]")
	if !ok || text != "Please use the contact form." {
		t.Fatalf("text=%q ok=%v", text, ok)
	}
	text, ok = extractContactMarker("Solar panels last decades.")
	if ok || text != "Solar panels last decades." {
		t.Fatalf("text=%q ok=%v", text, ok)
	}
}
