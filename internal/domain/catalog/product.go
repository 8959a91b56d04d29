package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// Product is a catalog entry. ID is a stable URL slug such as "ev-charger-60kw".
type Product struct {
	ID           string         `gorm:"type:varchar(128);primaryKey" json:"id"`
	Name         string         `gorm:"not null;column:name" json:"name"`
	Category     string         `gorm:"not null;column:category" json:"category"`
	CategorySlug string         `gorm:"not null;index;column:category_slug" json:"categorySlug"`
	Sector       string         `gorm:"index;column:sector" json:"sector,omitempty"`
	Summary      string         `gorm:"column:summary" json:"summary"`
	Description  string         `gorm:"type:text;column:description" json:"description,omitempty"`
	Specs        datatypes.JSON `gorm:"column:specs" json:"specs,omitempty"`
	ImageURL     string         `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Featured     bool           `gorm:"not null;default:false;index;column:featured" json:"featured"`
	SortOrder    int            `gorm:"not null;default:0;column:sort_order" json:"sortOrder"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string { return "product" }
