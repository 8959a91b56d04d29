package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/voltera/site-backend/internal/data/repos"
	"github.com/voltera/site-backend/internal/data/repos/testutil"
	types "github.com/voltera/site-backend/internal/domain"
	"github.com/voltera/site-backend/internal/platform/apierr"
	"github.com/voltera/site-backend/internal/services/seed"
)

type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	leads    []*types.Lead
	products []*types.Product
}

func (f *fakeNotifier) NotifyLead(ctx context.Context, lead *types.Lead, product *types.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, lead)
	f.products = append(f.products, product)
	return f.err
}

type fakeLeadObserver struct {
	outcomes []string
}

func (f *fakeLeadObserver) ObserveLead(kind, outcome string) {
	f.outcomes = append(f.outcomes, kind+":"+outcome)
}

type leadFixture struct {
	svc      LeadService
	leads    repos.LeadRepo
	notifier *fakeNotifier
	observer *fakeLeadObserver
}

func newLeadFixture(t *testing.T) *leadFixture {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	productRepo := repos.NewProductRepo(db, log)
	if _, err := NewCatalogService(db, log, productRepo).Seed(context.Background(), seed.CatalogYAML); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	f := &leadFixture{
		leads:    repos.NewLeadRepo(db, log),
		notifier: &fakeNotifier{},
		observer: &fakeLeadObserver{},
	}
	f.svc = NewLeadService(db, log, f.leads, productRepo, f.notifier, f.observer)
	return f
}

func validLead() LeadInput {
	return LeadInput{
		Name:       "  Ada Lovelace ",
		Email:      "ADA@Example.com",
		Company:    "Analytical Engines Ltd",
		Sector:     "Commercial",
		ProductID:  "ev-charger-60kw",
		Message:    "We need four fast chargers for our depot.",
		SourcePage: "/products/ev-charger-60kw",
	}
}

func TestLeadSubmitPersistsAndNotifies(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()

	lead, err := f.svc.Submit(ctx, types.LeadKindQuote, validLead())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if lead.Status != types.LeadStatusNotified || lead.NotifiedAt == nil {
		t.Fatalf("status=%q notifiedAt=%v", lead.Status, lead.NotifiedAt)
	}
	if lead.Name != "Ada Lovelace" || lead.Email != "ada@example.com" || lead.Sector != "commercial" {
		t.Fatalf("input not normalised: %+v", lead)
	}
	if len(f.notifier.leads) != 1 || f.notifier.products[0] == nil || f.notifier.products[0].ID != "ev-charger-60kw" {
		t.Fatalf("notifier calls=%d", len(f.notifier.leads))
	}

	stored, err := f.leads.GetByID(ctx, nil, lead.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != types.LeadStatusNotified || stored.Kind != types.LeadKindQuote {
		t.Fatalf("stored status=%q kind=%q", stored.Status, stored.Kind)
	}
	if strings.Join(f.observer.outcomes, ",") != "quote:ok" {
		t.Fatalf("outcomes=%v", f.observer.outcomes)
	}
}

func TestLeadSubmitValidation(t *testing.T) {
	f := newLeadFixture(t)
	in := LeadInput{Name: "A", Email: "not-an-email", Message: ""}

	_, err := f.svc.Submit(context.Background(), types.LeadKindContact, in)
	ae := apierr.As(err, "internal")
	if ae.Status != http.StatusBadRequest || ae.Code != "validation_failed" {
		t.Fatalf("status=%d code=%q", ae.Status, ae.Code)
	}
	for _, field := range []string{"name", "email", "message"} {
		if _, ok := ae.Fields[field]; !ok {
			t.Fatalf("missing field error for %q: %v", field, ae.Fields)
		}
	}
	if len(f.notifier.leads) != 0 {
		t.Fatalf("notifier should not be called")
	}
}

func TestLeadSubmitUnknownProduct(t *testing.T) {
	f := newLeadFixture(t)
	in := validLead()
	in.ProductID = "perpetual-motion"

	_, err := f.svc.Submit(context.Background(), types.LeadKindQuote, in)
	ae := apierr.As(err, "internal")
	if ae.Status != http.StatusBadRequest || ae.Fields["productId"] == "" {
		t.Fatalf("status=%d fields=%v", ae.Status, ae.Fields)
	}
}

func TestLeadSubmitRejectsUnknownKind(t *testing.T) {
	f := newLeadFixture(t)
	_, err := f.svc.Submit(context.Background(), types.LeadKind("spam"), validLead())
	if ae := apierr.As(err, "internal"); ae.Status != http.StatusBadRequest {
		t.Fatalf("status=%d", ae.Status)
	}
}

func TestLeadSubmitNotificationFailure(t *testing.T) {
	f := newLeadFixture(t)
	f.notifier.err = errors.New("smtp down")
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, types.LeadKindContact, validLead())
	ae := apierr.As(err, "internal")
	if ae.Status != http.StatusBadGateway || ae.Code != "notification_failed" {
		t.Fatalf("status=%d code=%q", ae.Status, ae.Code)
	}

	items, err := f.leads.List(ctx, nil, repos.LeadFilter{Status: types.LeadStatusNotifyFailed})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("notify_failed leads=%d want=1", len(items))
	}
}

func TestLeadList(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Submit(ctx, types.LeadKindContact, validLead()); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	if _, err := f.svc.Submit(ctx, types.LeadKindQuote, validLead()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	page, err := f.svc.List(ctx, types.LeadKindContact, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 {
		t.Fatalf("total=%d items=%d", page.Total, len(page.Items))
	}

	all, err := f.svc.List(ctx, "", 1, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if all.Total != 4 {
		t.Fatalf("total=%d want=4", all.Total)
	}
}

func TestLeadBodyIncludesProduct(t *testing.T) {
	lead := &types.Lead{Kind: types.LeadKindQuote, Name: "Ada", Email: "ada@example.com", Company: "AE", Message: "hello"}
	product := &types.Product{ID: "ev-charger-60kw", Name: "60kW DC Fast Charger"}

	if got := leadSubject(lead); got != "New quote request from Ada (AE)" {
		t.Fatalf("subject=%q", got)
	}
	body := leadBody(lead, product)
	if !strings.Contains(body, "Product: 60kW DC Fast Charger (ev-charger-60kw)") || !strings.HasSuffix(body, "hello\n") {
		t.Fatalf("body=%q", body)
	}
}
