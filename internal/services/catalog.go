package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voltera/site-backend/internal/chat"
	"github.com/voltera/site-backend/internal/data/repos"
	types "github.com/voltera/site-backend/internal/domain"
	"github.com/voltera/site-backend/internal/platform/apierr"
	"github.com/voltera/site-backend/internal/platform/logger"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

type ListProductsInput struct {
	Category string
	Sector   string
	Featured *bool
	Query    string
	Page     int
	PageSize int
}

type ProductPage struct {
	Items    []*types.Product `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int64            `json:"total"`
}

type CatalogService interface {
	ListProducts(ctx context.Context, in ListProductsInput) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*types.Product, error)
	Categories(ctx context.Context) ([]repos.CategoryCount, error)
	// GetProductByID satisfies chat.ProductLookup.
	GetProductByID(ctx context.Context, id string) (*chat.ProductRef, error)
	Seed(ctx context.Context, raw []byte) (int, error)
}

type catalogService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{db: db, log: serviceLog, productRepo: productRepo}
}

// Pagination clamps page to >= 1 and pageSize to [1, MaxPageSize].
func Pagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func (cs *catalogService) ListProducts(ctx context.Context, in ListProductsInput) (*ProductPage, error) {
	page, size := Pagination(in.Page, in.PageSize)
	filter := repos.ProductFilter{
		CategorySlug: in.Category,
		Sector:       in.Sector,
		Featured:     in.Featured,
		Search:       in.Query,
	}

	total, err := cs.productRepo.Count(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	filter.Limit = size
	filter.Offset = (page - 1) * size
	items, err := cs.productRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []*types.Product{}
	}
	return &ProductPage{Items: items, Page: page, PageSize: size, Total: total}, nil
}

func (cs *catalogService) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.New(400, "missing_product_id", errors.New("product id is required"))
	}
	p, err := cs.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	if p == nil {
		return nil, apierr.NotFound("product_not_found", fmt.Errorf("product %q not found", id))
	}
	return p, nil
}

func (cs *catalogService) Categories(ctx context.Context) ([]repos.CategoryCount, error) {
	cats, err := cs.productRepo.Categories(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cats == nil {
		cats = []repos.CategoryCount{}
	}
	return cats, nil
}

func (cs *catalogService) GetProductByID(ctx context.Context, id string) (*chat.ProductRef, error) {
	p, err := cs.productRepo.GetByID(ctx, nil, id)
	if err != nil || p == nil {
		return nil, err
	}
	return &chat.ProductRef{ID: p.ID, Name: p.Name, Category: p.Category}, nil
}

type seedProduct struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Category     string         `yaml:"category"`
	CategorySlug string         `yaml:"category_slug"`
	Sector       string         `yaml:"sector"`
	Summary      string         `yaml:"summary"`
	Description  string         `yaml:"description"`
	ImageURL     string         `yaml:"image_url"`
	Featured     bool           `yaml:"featured"`
	SortOrder    int            `yaml:"sort_order"`
	Specs        map[string]any `yaml:"specs"`
}

// Seed loads the YAML catalog when the product table is empty and returns
// the number of products written.
func (cs *catalogService) Seed(ctx context.Context, raw []byte) (int, error) {
	existing, err := cs.productRepo.Count(ctx, nil, repos.ProductFilter{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		cs.log.Debug("Catalog already populated; skipping seed", "products", existing)
		return 0, nil
	}

	var f struct {
		Products []seedProduct `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("parse catalog seed: %w", err)
	}

	products := make([]*types.Product, 0, len(f.Products))
	for _, sp := range f.Products {
		if strings.TrimSpace(sp.ID) == "" || strings.TrimSpace(sp.Name) == "" {
			return 0, fmt.Errorf("catalog seed: product id and name are required")
		}
		p := &types.Product{
			ID:           strings.TrimSpace(sp.ID),
			Name:         strings.TrimSpace(sp.Name),
			Category:     strings.TrimSpace(sp.Category),
			CategorySlug: strings.ToLower(strings.TrimSpace(sp.CategorySlug)),
			Sector:       strings.ToLower(strings.TrimSpace(sp.Sector)),
			Summary:      strings.TrimSpace(sp.Summary),
			Description:  strings.TrimSpace(sp.Description),
			ImageURL:     strings.TrimSpace(sp.ImageURL),
			Featured:     sp.Featured,
			SortOrder:    sp.SortOrder,
		}
		if len(sp.Specs) > 0 {
			b, err := json.Marshal(sp.Specs)
			if err != nil {
				return 0, fmt.Errorf("catalog seed %s: specs: %w", p.ID, err)
			}
			p.Specs = datatypes.JSON(b)
		}
		products = append(products, p)
	}

	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.productRepo.Upsert(ctx, tx, products)
	}); err != nil {
		return 0, fmt.Errorf("seed catalog: %w", err)
	}
	cs.log.Info("Catalog seeded", "products", len(products))
	return len(products), nil
}
