package catalog

import (
	"context"
	"testing"

	"github.com/voltera/site-backend/internal/data/repos/testutil"
	types "github.com/voltera/site-backend/internal/domain"
	"gorm.io/datatypes"
)

func TestProductRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProductRepo(db, testutil.Logger(t))
	ctx := context.Background()

	testutil.SeedProduct(t, ctx, tx, "wallbox-11kw", "ev-chargers", false)
	testutil.SeedProduct(t, ctx, tx, "ev-charger-60kw", "ev-chargers", true)
	testutil.SeedProduct(t, ctx, tx, "panel-430", "solar-panels", false)

	got, err := repo.GetByID(ctx, tx, "ev-charger-60kw")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Name != "Product ev-charger-60kw" {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	missing, err := repo.GetByID(ctx, tx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): %+v err=%v", missing, err)
	}

	list, err := repo.List(ctx, tx, ProductFilter{CategorySlug: "EV-Chargers"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "ev-charger-60kw" {
		t.Fatalf("List: featured first expected, got %+v", list)
	}

	featured := true
	count, err := repo.Count(ctx, tx, ProductFilter{Featured: &featured})
	if err != nil || count != 1 {
		t.Fatalf("Count(featured)=%d err=%v", count, err)
	}

	page, err := repo.List(ctx, tx, ProductFilter{Limit: 1, Offset: 1})
	if err != nil || len(page) != 1 {
		t.Fatalf("List(page): %+v err=%v", page, err)
	}

	searched, err := repo.List(ctx, tx, ProductFilter{Search: "PANEL"})
	if err != nil || len(searched) != 1 || searched[0].ID != "panel-430" {
		t.Fatalf("List(search): %+v err=%v", searched, err)
	}

	none, err := repo.List(ctx, tx, ProductFilter{Search: "100%"})
	if err != nil || len(none) != 0 {
		t.Fatalf("List(escaped search): %+v err=%v", none, err)
	}

	cats, err := repo.Categories(ctx, tx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0].CategorySlug != "ev-chargers" || cats[0].Count != 2 {
		t.Fatalf("Categories: %+v", cats)
	}
}

func TestProductRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProductRepo(db, testutil.Logger(t))
	ctx := context.Background()

	p := &types.Product{
		ID:           "battery-10",
		Name:         "Home Battery 10 kWh",
		Category:     "Battery Storage",
		CategorySlug: "battery-storage",
		Specs:        datatypes.JSON([]byte(`{"capacity_kwh": 10}`)),
	}
	if err := repo.Upsert(ctx, tx, []*types.Product{p}); err != nil {
		t.Fatalf("Upsert(insert): %v", err)
	}

	p2 := *p
	p2.Name = "Home Battery 10 kWh (Gen 2)"
	p2.Featured = true
	if err := repo.Upsert(ctx, tx, []*types.Product{&p2}); err != nil {
		t.Fatalf("Upsert(update): %v", err)
	}

	got, err := repo.GetByID(ctx, tx, "battery-10")
	if err != nil || got == nil {
		t.Fatalf("GetByID: %+v err=%v", got, err)
	}
	if got.Name != "Home Battery 10 kWh (Gen 2)" || !got.Featured {
		t.Fatalf("Upsert did not update: %+v", got)
	}

	n, err := repo.Count(ctx, tx, ProductFilter{})
	if err != nil || n != 1 {
		t.Fatalf("Count=%d err=%v", n, err)
	}
}
