package leads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindContact Kind = "contact"
	KindQuote   Kind = "quote"
)

type Status string

const (
	StatusNew          Status = "new"
	StatusNotified     Status = "notified"
	StatusNotifyFailed Status = "notify_failed"
)

// Lead is a contact or quote request submitted through the website forms.
type Lead struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Kind       Kind       `gorm:"type:varchar(16);not null;index;column:kind" json:"kind"`
	Name       string     `gorm:"not null;column:name" json:"name"`
	Email      string     `gorm:"not null;index;column:email" json:"email"`
	Phone      string     `gorm:"column:phone" json:"phone,omitempty"`
	Company    string     `gorm:"column:company" json:"company,omitempty"`
	Sector     string     `gorm:"column:sector" json:"sector,omitempty"`
	ProductID  string     `gorm:"column:product_id" json:"productId,omitempty"`
	Message    string     `gorm:"type:text;not null;column:message" json:"message"`
	SourcePage string     `gorm:"column:source_page" json:"sourcePage,omitempty"`
	Status     Status     `gorm:"type:varchar(32);not null;index;column:status" json:"status"`
	NotifiedAt *time.Time `gorm:"column:notified_at" json:"notifiedAt,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Lead) TableName() string { return "lead" }

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = StatusNew
	}
	return nil
}
