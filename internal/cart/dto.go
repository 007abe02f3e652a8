package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/db/models"
)

// CartItemDTO is one cart line joined with live product details.
type CartItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"lineTotal"`
	Stock     int       `json:"stock"`
	AddedAt   time.Time `json:"addedAt"`
}

// CartDTO is the API shape of a cart.
type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	Items      []CartItemDTO `json:"items"`
	TotalItems int           `json:"totalItems"`
	TotalPrice float64       `json:"totalPrice"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// NewCartDTO maps the cart and its resolved products into the API shape.
func NewCartDTO(cart *models.Cart, products map[uuid.UUID]*models.Product) *CartDTO {
	if cart == nil {
		return nil
	}

	items := make([]CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		dto := CartItemDTO{
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice.InexactFloat64(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().InexactFloat64(),
			AddedAt:   item.AddedAt,
		}
		if product, ok := products[item.ProductID]; ok {
			dto.Name = product.Name
			dto.Image = product.PrimaryImage()
			dto.Stock = product.Stock
		}
		items = append(items, dto)
	}

	return &CartDTO{
		ID:         cart.ID,
		Items:      items,
		TotalItems: cart.TotalItems,
		TotalPrice: cart.TotalPrice.InexactFloat64(),
		UpdatedAt:  cart.UpdatedAt,
	}
}
