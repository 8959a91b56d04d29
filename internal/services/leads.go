package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/voltera/site-backend/internal/data/repos"
	types "github.com/voltera/site-backend/internal/domain"
	"github.com/voltera/site-backend/internal/platform/apierr"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type LeadInput struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Phone      string `json:"phone" validate:"omitempty,max=40"`
	Company    string `json:"company" validate:"omitempty,max=160"`
	Sector     string `json:"sector" validate:"omitempty,max=64"`
	ProductID  string `json:"productId" validate:"omitempty,max=128"`
	Message    string `json:"message" validate:"required,min=5,max=5000"`
	SourcePage string `json:"sourcePage" validate:"omitempty,max=512"`
}

type LeadPage struct {
	Items    []*types.Lead `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int64         `json:"total"`
}

// LeadObserver receives submission outcomes. Optional.
type LeadObserver interface {
	ObserveLead(kind string, outcome string)
}

type LeadService interface {
	Submit(ctx context.Context, kind types.LeadKind, in LeadInput) (*types.Lead, error)
	List(ctx context.Context, kind types.LeadKind, page, pageSize int) (*LeadPage, error)
}

type leadService struct {
	db          *gorm.DB
	log         *logger.Logger
	leadRepo    repos.LeadRepo
	productRepo repos.ProductRepo
	notifier    LeadNotifier
	validate    *validator.Validate
	observer    LeadObserver
}

func NewLeadService(db *gorm.DB, log *logger.Logger, leadRepo repos.LeadRepo, productRepo repos.ProductRepo, notifier LeadNotifier, observer LeadObserver) LeadService {
	serviceLog := log.With("service", "LeadService")
	return &leadService{
		db:          db,
		log:         serviceLog,
		leadRepo:    leadRepo,
		productRepo: productRepo,
		notifier:    notifier,
		validate:    newValidator(),
		observer:    observer,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (ls *leadService) Submit(ctx context.Context, kind types.LeadKind, in LeadInput) (*types.Lead, error) {
	if kind != types.LeadKindContact && kind != types.LeadKindQuote {
		return nil, apierr.New(http.StatusBadRequest, "invalid_lead_kind", fmt.Errorf("unknown lead kind %q", kind))
	}
	in = trimLeadInput(in)
	if err := ls.validateInput(in); err != nil {
		ls.observe(kind, "invalid")
		return nil, err
	}

	var product *types.Product
	if in.ProductID != "" {
		p, err := ls.productRepo.GetByID(ctx, nil, in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lookup product %s: %w", in.ProductID, err)
		}
		if p == nil {
			ls.observe(kind, "invalid")
			return nil, apierr.Validation(map[string]string{"productId": "unknown product"})
		}
		product = p
	}

	lead, err := ls.leadRepo.Create(ctx, nil, &types.Lead{
		Kind:       kind,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Company:    in.Company,
		Sector:     strings.ToLower(in.Sector),
		ProductID:  in.ProductID,
		Message:    in.Message,
		SourcePage: in.SourcePage,
		Status:     types.LeadStatusNew,
	})
	if err != nil {
		ls.observe(kind, "error")
		return nil, fmt.Errorf("create lead: %w", err)
	}

	if err := ls.notifier.NotifyLead(ctx, lead, product); err != nil {
		ls.log.Error("Lead notification failed", "lead_id", lead.ID.String(), "error", err)
		if uerr := ls.leadRepo.UpdateStatus(ctx, nil, lead.ID, types.LeadStatusNotifyFailed, nil); uerr != nil {
			ls.log.Error("Failed to mark lead notify_failed", "lead_id", lead.ID.String(), "error", uerr)
		}
		ls.observe(kind, "notify_failed")
		return nil, apierr.New(http.StatusBadGateway, "notification_failed", errors.New("your request was saved but we could not notify our team; please try again later"))
	}

	now := time.Now().UTC()
	if err := ls.leadRepo.UpdateStatus(ctx, nil, lead.ID, types.LeadStatusNotified, &now); err != nil {
		ls.log.Warn("Failed to mark lead notified", "lead_id", lead.ID.String(), "error", err)
	} else {
		lead.Status = types.LeadStatusNotified
		lead.NotifiedAt = &now
	}

	ls.log.Info("Lead submitted", "lead_id", lead.ID.String(), "kind", kind, "email", lead.Email)
	ls.observe(kind, "ok")
	return lead, nil
}

func (ls *leadService) List(ctx context.Context, kind types.LeadKind, page, pageSize int) (*LeadPage, error) {
	page, size := Pagination(page, pageSize)
	filter := repos.LeadFilter{Kind: kind}

	total, err := ls.leadRepo.Count(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	filter.Limit = size
	filter.Offset = (page - 1) * size
	items, err := ls.leadRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	if items == nil {
		items = []*types.Lead{}
	}
	return &LeadPage{Items: items, Page: page, PageSize: size, Total: total}, nil
}

func (ls *leadService) validateInput(in LeadInput) error {
	err := ls.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierr.New(http.StatusBadRequest, "validation_failed", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apierr.Validation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

func trimLeadInput(in LeadInput) LeadInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Sector = strings.TrimSpace(in.Sector)
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Message = strings.TrimSpace(in.Message)
	in.SourcePage = strings.TrimSpace(in.SourcePage)
	return in
}

func (ls *leadService) observe(kind types.LeadKind, outcome string) {
	if ls.observer != nil {
		ls.observer.ObserveLead(string(kind), outcome)
	}
}
