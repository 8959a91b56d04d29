package leads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/voltera/site-backend/internal/domain"
	"github.com/voltera/site-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type LeadFilter struct {
	Kind   types.LeadKind
	Status types.LeadStatus
	Limit  int
	Offset int
}

type LeadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lead *types.Lead) (*types.Lead, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lead, error)
	List(ctx context.Context, tx *gorm.DB, filter LeadFilter) ([]*types.Lead, error)
	Count(ctx context.Context, tx *gorm.DB, filter LeadFilter) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.LeadStatus, notifiedAt *time.Time) error
}

type leadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
	repoLog := baseLog.With("repo", "LeadRepo")
	return &leadRepo{db: db, log: repoLog}
}

func (lr *leadRepo) Create(ctx context.Context, tx *gorm.DB, lead *types.Lead) (*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if lead == nil {
		return nil, errors.New("lead required")
	}
	if err := transaction.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

// GetByID returns nil, nil when the lead does not exist.
func (lr *leadRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var l types.Lead
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (lr *leadRepo) List(ctx context.Context, tx *gorm.DB, filter LeadFilter) ([]*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	q := applyFilter(transaction.WithContext(ctx).Model(&types.Lead{}), filter).
		Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var results []*types.Lead
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *leadRepo) Count(ctx context.Context, tx *gorm.DB, filter LeadFilter) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var count int64
	if err := applyFilter(transaction.WithContext(ctx).Model(&types.Lead{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (lr *leadRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.LeadStatus, notifiedAt *time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	updates := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if notifiedAt != nil {
		updates["notified_at"] = *notifiedAt
	}
	return transaction.WithContext(ctx).
		Model(&types.Lead{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func applyFilter(q *gorm.DB, f LeadFilter) *gorm.DB {
	if f.Kind != "" {
		q = q.Where("kind = ?", string(f.Kind))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	return q
}
