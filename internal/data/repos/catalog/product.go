package catalog

import (
	"context"
	"errors"
	"strings"

	types "github.com/voltera/site-backend/internal/domain"
	"github.com/voltera/site-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	CategorySlug string
	Sector       string
	Featured     *bool
	// Search matches name or summary, case-insensitive.
	Search string
	Limit  int
	Offset int
}

type CategoryCount struct {
	Category     string `json:"category"`
	CategorySlug string `json:"categorySlug"`
	Count        int64  `json:"count"`
}

type ProductRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Product, error)
	List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.Product, error)
	Count(ctx context.Context, tx *gorm.DB, filter ProductFilter) (int64, error)
	Categories(ctx context.Context, tx *gorm.DB) ([]CategoryCount, error)
	Upsert(ctx context.Context, tx *gorm.DB, products []*types.Product) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

// GetByID returns nil, nil when no product has the id.
func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var p types.Product
	err := transaction.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(id)).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *productRepo) List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	q := applyFilter(transaction.WithContext(ctx).Model(&types.Product{}), filter).
		Order("featured DESC").
		Order("sort_order ASC").
		Order("name ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var results []*types.Product
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) Count(ctx context.Context, tx *gorm.DB, filter ProductFilter) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := applyFilter(transaction.WithContext(ctx).Model(&types.Product{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *productRepo) Categories(ctx context.Context, tx *gorm.DB) ([]CategoryCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var out []CategoryCount
	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Select("category, category_slug, COUNT(*) AS count").
		Group("category, category_slug").
		Order("category ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (pr *productRepo) Upsert(ctx context.Context, tx *gorm.DB, products []*types.Product) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(products) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "category", "category_slug", "sector", "summary",
				"description", "specs", "image_url", "featured", "sort_order", "updated_at",
			}),
		}).
		Create(&products).Error
}

func applyFilter(q *gorm.DB, f ProductFilter) *gorm.DB {
	if v := strings.TrimSpace(f.CategorySlug); v != "" {
		q = q.Where("category_slug = ?", strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.Sector); v != "" {
		q = q.Where("sector = ?", strings.ToLower(v))
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		like := "%" + escapeLike(strings.ToLower(v)) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(summary) LIKE ? ESCAPE '\\')", like, like)
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
