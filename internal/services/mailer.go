package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/voltera/site-backend/internal/domain"
	"github.com/voltera/site-backend/internal/platform/logger"
	"github.com/voltera/site-backend/internal/platform/sendgrid"
)

// LeadNotifier tells the sales team about a new lead. product may be nil.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead *types.Lead, product *types.Product) error
}

// NewLeadNotifier sends through SendGrid, or only logs when client is nil.
func NewLeadNotifier(log *logger.Logger, client sendgrid.Client, notifyEmail string) LeadNotifier {
	if client == nil {
		return &logLeadNotifier{log: log.With("notifier", "LogLeadNotifier")}
	}
	return &sendgridLeadNotifier{
		log:    log.With("notifier", "SendGridLeadNotifier"),
		client: client,
		to:     strings.TrimSpace(notifyEmail),
	}
}

type sendgridLeadNotifier struct {
	log    *logger.Logger
	client sendgrid.Client
	to     string
}

func (n *sendgridLeadNotifier) NotifyLead(ctx context.Context, lead *types.Lead, product *types.Product) error {
	res, err := n.client.Send(ctx, sendgrid.SendEmailRequest{
		ReplyTo:    &sendgrid.EmailAddress{Email: lead.Email, Name: lead.Name},
		To:         []sendgrid.EmailAddress{{Email: n.to}},
		Subject:    leadSubject(lead),
		Text:       leadBody(lead, product),
		Categories: []string{"lead", string(lead.Kind)},
		CustomArgs: map[string]string{"lead_id": lead.ID.String()},
	})
	if err != nil {
		return fmt.Errorf("send lead notification: %w", err)
	}
	n.log.Info("Lead notification sent", "lead_id", lead.ID.String(), "kind", lead.Kind, "message_id", res.MessageID)
	return nil
}

type logLeadNotifier struct {
	log *logger.Logger
}

func (n *logLeadNotifier) NotifyLead(ctx context.Context, lead *types.Lead, product *types.Product) error {
	n.log.Warn("SendGrid not configured; lead notification logged only",
		"lead_id", lead.ID.String(),
		"kind", lead.Kind,
		"subject", leadSubject(lead),
	)
	return nil
}

func leadSubject(lead *types.Lead) string {
	label := "contact request"
	if lead.Kind == types.LeadKindQuote {
		label = "quote request"
	}
	if c := strings.TrimSpace(lead.Company); c != "" {
		return fmt.Sprintf("New %s from %s (%s)", label, lead.Name, c)
	}
	return fmt.Sprintf("New %s from %s", label, lead.Name)
}

func leadBody(lead *types.Lead, product *types.Product) string {
	var b strings.Builder
	line := func(k, v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	line("Type", string(lead.Kind))
	line("Name", lead.Name)
	line("Email", lead.Email)
	line("Phone", lead.Phone)
	line("Company", lead.Company)
	line("Sector", lead.Sector)
	if product != nil {
		line("Product", fmt.Sprintf("%s (%s)", product.Name, product.ID))
	} else {
		line("Product", lead.ProductID)
	}
	line("Submitted from", lead.SourcePage)
	line("Lead ID", lead.ID.String())
	b.WriteString("\n")
	b.WriteString(lead.Message)
	b.WriteString("\n")
	return b.String()
}
