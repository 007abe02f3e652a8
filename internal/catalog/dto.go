package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/pagination"
	"github.com/KrishMoond/eco/pkg/types"
)

// ProductDTO is the API shape of a catalog product.
type ProductDTO struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Slug          string                `json:"slug"`
	Description   string                `json:"description"`
	Price         float64               `json:"price"`
	OriginalPrice *float64              `json:"originalPrice,omitempty"`
	Category      enums.ProductCategory `json:"category"`
	Brand         *string               `json:"brand,omitempty"`
	Stock         int                   `json:"stock"`
	InStock       bool                  `json:"inStock"`
	Images        []models.ProductImage `json:"images"`
	Tags          []string              `json:"tags"`
	Ratings       types.RatingSummary   `json:"ratings"`
	Status        enums.ProductStatus   `json:"status"`
	IsFeatured    bool                  `json:"isFeatured"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ProductListResult is one page of products.
type ProductListResult struct {
	Products   []ProductDTO    `json:"products"`
	Pagination pagination.Meta `json:"pagination"`
}

// NewProductDTO maps the storage model to its API shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price.InexactFloat64(),
		Category:    product.Category,
		Brand:       product.Brand,
		Stock:       product.Stock,
		InStock:     product.Stock > 0,
		Images:      product.Images,
		Tags:        []string(product.Tags),
		Ratings:     product.Ratings,
		Status:      product.Status,
		IsFeatured:  product.IsFeatured,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.OriginalPrice != nil {
		v := product.OriginalPrice.InexactFloat64()
		dto.OriginalPrice = &v
	}
	if dto.Images == nil {
		dto.Images = []models.ProductImage{}
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	return dto
}
