package testutil

import (
	"context"
	"testing"

	types "github.com/voltera/site-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, id, categorySlug string, featured bool) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:           id,
		Name:         "Product " + id,
		Category:     categorySlug,
		CategorySlug: categorySlug,
		Summary:      "summary of " + id,
		Specs:        datatypes.JSON([]byte(`{"power_kw": 11}`)),
		Featured:     featured,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedLead(tb testing.TB, ctx context.Context, tx *gorm.DB, kind types.LeadKind, email string) *types.Lead {
	tb.Helper()
	l := &types.Lead{
		Kind:    kind,
		Name:    "Jane Doe",
		Email:   email,
		Message: "Please call me back.",
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lead: %v", err)
	}
	return l
}
