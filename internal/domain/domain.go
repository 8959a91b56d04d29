package domain

import (
	"github.com/voltera/site-backend/internal/domain/catalog"
	"github.com/voltera/site-backend/internal/domain/leads"
)

type (
	Product = catalog.Product

	Lead       = leads.Lead
	LeadKind   = leads.Kind
	LeadStatus = leads.Status
)

const (
	LeadKindContact = leads.KindContact
	LeadKindQuote   = leads.KindQuote

	LeadStatusNew          = leads.StatusNew
	LeadStatusNotified     = leads.StatusNotified
	LeadStatusNotifyFailed = leads.StatusNotifyFailed
)

// Models lists every persisted type for auto-migration.
func Models() []any {
	return []any{
		&Product{},
		&Lead{},
	}
}
