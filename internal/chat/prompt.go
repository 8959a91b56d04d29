package chat

import (
	"strings"

	"github.com/voltera/site-backend/internal/inference/engine"
)

// ContactMarker is appended by the model when the user should be handed to the sales team.
const ContactMarker = "[[CONTACT]]"

const persona = `You are the website assistant for Voltera, an energy-solutions company selling EV chargers, solar panels, battery storage, inverters, heat pumps and related services.

Rules:
- Be concise and friendly. Answer in a few short sentences unless the user asks for detail.
- Never quote prices, price ranges, discounts or any currency amounts, even if the user insists or a figure appears in the information below.
- For questions about pricing, costs or quotes, explain that every project is quoted individually and direct the user to the contact or quote request form.
- Base product and company facts on the information below. If you do not know the answer, say so briefly and suggest contacting the team.
- Whenever you direct the user to the team or the contact form, end your reply with the exact marker ` + ContactMarker + `.`

// Turn is one prior message from the client-held conversation.
type Turn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// SystemPrompt renders the persona, the optional framing line and the retrieved snippets.
func SystemPrompt(ac AssembledContext) string {
	var b strings.Builder
	b.WriteString(persona)
	if ac.Framing != "" {
		b.WriteString("\n\n")
		b.WriteString(ac.Framing)
	}
	if len(ac.Snippets) > 0 {
		b.WriteString("\n\nRelevant information:\n")
		for i, s := range ac.Snippets {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// BuildMessages assembles system prompt, the last historyTurns non-blank turns and the new message.
func BuildMessages(ac AssembledContext, history []Turn, message string, historyTurns int) []engine.Message {
	kept := make([]engine.Message, 0, len(history))
	for _, t := range history {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		role := engine.RoleAssistant
		if strings.EqualFold(strings.TrimSpace(t.Sender), engine.RoleUser) {
			role = engine.RoleUser
		}
		kept = append(kept, engine.Message{Role: role, Content: text})
	}
	if historyTurns < 0 {
		historyTurns = 0
	}
	if len(kept) > historyTurns {
		kept = kept[len(kept)-historyTurns:]
	}

	out := make([]engine.Message, 0, len(kept)+2)
	out = append(out, engine.Message{Role: engine.RoleSystem, Content: SystemPrompt(ac)})
	out = append(out, kept...)
	out = append(out, engine.Message{Role: engine.RoleUser, Content: strings.TrimSpace(message)})
	return out
}

var pricingTerms = []string{
	"price", "prices", "pricing", "priced", "cost", "costs", "costing",
	"quote", "quotes", "quotation", "how much", "budget", "expensive",
	"cheap", "cheaper", "tariff", "discount",
}

// HasPricingIntent reports whether message asks about money.
func HasPricingIntent(message string) bool {
	padded := " " + strings.Join(strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	}), " ") + " "
	for _, t := range pricingTerms {
		if strings.Contains(padded, " "+t+" ") {
			return true
		}
	}
	return false
}

// extractContactMarker removes every marker occurrence and reports whether one was present.
func extractContactMarker(reply string) (string, bool) {
	if !strings.Contains(reply, ContactMarker) {
		return strings.TrimSpace(reply), false
	}
	return strings.TrimSpace(strings.ReplaceAll(reply, ContactMarker, "")), true
}
