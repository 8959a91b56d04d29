package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/voltera/site-backend/internal/data/repos"
	"github.com/voltera/site-backend/internal/data/repos/testutil"
	"github.com/voltera/site-backend/internal/platform/apierr"
	"github.com/voltera/site-backend/internal/services/seed"
)

func newSeededCatalog(t *testing.T) CatalogService {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	svc := NewCatalogService(db, log, repos.NewProductRepo(db, log))
	n, err := svc.Seed(context.Background(), seed.CatalogYAML)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 10 {
		t.Fatalf("seeded=%d want=10", n)
	}
	return svc
}

func TestCatalogSeedIsIdempotent(t *testing.T) {
	svc := newSeededCatalog(t)
	n, err := svc.Seed(context.Background(), seed.CatalogYAML)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 0 {
		t.Fatalf("second seed wrote %d products", n)
	}
}

func TestCatalogListProductsPaginates(t *testing.T) {
	svc := newSeededCatalog(t)
	ctx := context.Background()

	page, err := svc.ListProducts(ctx, ListProductsInput{Page: 2, PageSize: 4})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if page.Total != 10 || page.Page != 2 || page.PageSize != 4 || len(page.Items) != 4 {
		t.Fatalf("page: total=%d page=%d size=%d items=%d", page.Total, page.Page, page.PageSize, len(page.Items))
	}

	chargers, err := svc.ListProducts(ctx, ListProductsInput{Category: "ev-chargers"})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if chargers.Total != 4 {
		t.Fatalf("ev-chargers total=%d want=4", chargers.Total)
	}
	for _, p := range chargers.Items {
		if p.CategorySlug != "ev-chargers" {
			t.Fatalf("unexpected category %q", p.CategorySlug)
		}
	}
}

func TestCatalogGetProduct(t *testing.T) {
	svc := newSeededCatalog(t)
	ctx := context.Background()

	p, err := svc.GetProduct(ctx, "ev-charger-60kw")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.Name != "60kW DC Fast Charger" {
		t.Fatalf("name=%q", p.Name)
	}

	_, err = svc.GetProduct(ctx, "flux-capacitor")
	if ae := apierr.As(err, "internal"); ae.Status != http.StatusNotFound {
		t.Fatalf("status=%d want=404 (err=%v)", ae.Status, err)
	}
	_, err = svc.GetProduct(ctx, "  ")
	if ae := apierr.As(err, "internal"); ae.Status != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", ae.Status)
	}
}

func TestCatalogProductLookupForChat(t *testing.T) {
	svc := newSeededCatalog(t)
	ctx := context.Background()

	ref, err := svc.GetProductByID(ctx, "ev-charger-60kw")
	if err != nil || ref == nil {
		t.Fatalf("GetProductByID: ref=%v err=%v", ref, err)
	}
	if ref.Category != "EV Chargers" {
		t.Fatalf("category=%q", ref.Category)
	}

	ref, err = svc.GetProductByID(ctx, "unknown")
	if err != nil || ref != nil {
		t.Fatalf("unknown product: ref=%v err=%v", ref, err)
	}
}

func TestCatalogCategories(t *testing.T) {
	svc := newSeededCatalog(t)
	cats, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 5 {
		t.Fatalf("categories=%d want=5", len(cats))
	}
}

func TestPagination(t *testing.T) {
	cases := []struct{ page, size, wantPage, wantSize int }{
		{0, 0, 1, DefaultPageSize},
		{-3, 7, 1, 7},
		{4, 1000, 4, MaxPageSize},
	}
	for _, c := range cases {
		p, s := Pagination(c.page, c.size)
		if p != c.wantPage || s != c.wantSize {
			t.Fatalf("Pagination(%d,%d)=(%d,%d) want (%d,%d)", c.page, c.size, p, s, c.wantPage, c.wantSize)
		}
	}
}
