package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/types"
)

// ProductImage is one catalog image reference.
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Product is the canonical catalog listing. Stock is the live sellable count
// and is only ever changed through conditional updates, never read-modify-write.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                `gorm:"column:name;not null"`
	Slug          string                `gorm:"column:slug;not null;uniqueIndex"`
	Description   string                `gorm:"column:description;not null"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice *decimal.Decimal      `gorm:"column:original_price;type:numeric(10,2)"`
	Category      enums.ProductCategory `gorm:"column:category;not null"`
	Brand         *string               `gorm:"column:brand"`
	Stock         int                   `gorm:"column:stock;not null;default:0"`
	Images        []ProductImage        `gorm:"column:images;type:jsonb;serializer:json"`
	Tags          pq.StringArray        `gorm:"column:tags;type:text[]"`
	Ratings       types.RatingSummary   `gorm:"column:ratings;type:jsonb;serializer:json"`
	Status        enums.ProductStatus   `gorm:"column:status;not null;default:'active'"`
	IsFeatured    bool                  `gorm:"column:is_featured;not null;default:false"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// Purchasable reports whether the product can be added to a cart right now.
func (p Product) Purchasable() bool {
	return p.Status.Purchasable() && p.Stock > 0
}

// PrimaryImage returns the first image URL, or empty when none exist.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
