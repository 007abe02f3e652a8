package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KrishMoond/eco/api/responses"
	"github.com/KrishMoond/eco/api/validators"
	"github.com/KrishMoond/eco/internal/catalog"
	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
	"github.com/KrishMoond/eco/pkg/logger"
)

type productImagePayload struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt,omitempty" validate:"max=200"`
}

type createProductPayload struct {
	Name          string                `json:"name" validate:"required,min=2,max=200"`
	Description   string                `json:"description" validate:"required,min=10"`
	Price         float64               `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64              `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	Category      string                `json:"category" validate:"required"`
	Brand         *string               `json:"brand,omitempty" validate:"omitempty,max=100"`
	Stock         int                   `json:"stock" validate:"gte=0"`
	Images        []productImagePayload `json:"images,omitempty" validate:"dive"`
	Tags          []string              `json:"tags,omitempty"`
	IsFeatured    bool                  `json:"isFeatured,omitempty"`
}

type updateProductPayload struct {
	Name          *string               `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description   *string               `json:"description,omitempty" validate:"omitempty,min=10"`
	Price         *float64              `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice *float64              `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	Category      *string               `json:"category,omitempty"`
	Brand         *string               `json:"brand,omitempty" validate:"omitempty,max=100"`
	Stock         *int                  `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Images        []productImagePayload `json:"images,omitempty" validate:"dive"`
	Tags          []string              `json:"tags,omitempty"`
	Status        *string               `json:"status,omitempty"`
	IsFeatured    *bool                 `json:"isFeatured,omitempty"`
}

// ProductList serves the public catalog listing with filters and pagination.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := catalog.ListProductsInput{
			Pagination: params,
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			Sort:       strings.TrimSpace(r.URL.Query().Get("sort")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.Category = &category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
			featured := raw == "true"
			input.Featured = &featured
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("minPrice")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must be numeric"))
				return
			}
			input.MinPrice = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("maxPrice")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "maxPrice must be numeric"))
				return
			}
			input.MaxPrice = &value
		}

		result, err := svc.ListProducts(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductGet serves one product by id.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := urlParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.GetProduct(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductCreate creates a product.
func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(payload.Category)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
			return
		}

		input := catalog.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       decimal.NewFromFloat(payload.Price),
			Category:    category,
			Brand:       payload.Brand,
			Stock:       payload.Stock,
			Images:      toProductImages(payload.Images),
			Tags:        payload.Tags,
			IsFeatured:  payload.IsFeatured,
		}
		if payload.OriginalPrice != nil {
			original := decimal.NewFromFloat(*payload.OriginalPrice)
			input.OriginalPrice = &original
		}

		product, err := svc.CreateProduct(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteCreated(w, "product created", product)
	}
}

// AdminProductUpdate applies a partial update to a product.
func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := urlParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Brand:       payload.Brand,
			Stock:       payload.Stock,
			IsFeatured:  payload.IsFeatured,
		}
		if payload.Price != nil {
			price := decimal.NewFromFloat(*payload.Price)
			input.Price = &price
		}
		if payload.OriginalPrice != nil {
			original := decimal.NewFromFloat(*payload.OriginalPrice)
			input.OriginalPrice = &original
		}
		if payload.Category != nil {
			category, err := enums.ParseProductCategory(*payload.Category)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.Category = &category
		}
		if payload.Status != nil {
			status, err := enums.ParseProductStatus(*payload.Status)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status"))
				return
			}
			input.Status = &status
		}
		if payload.Images != nil {
			images := toProductImages(payload.Images)
			input.Images = &images
		}
		if payload.Tags != nil {
			tags := payload.Tags
			input.Tags = &tags
		}

		product, err := svc.UpdateProduct(ctx, productID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "product updated", product)
	}
}

// AdminProductDelete discontinues a product.
func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := urlParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteProduct(ctx, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "product deleted", nil)
	}
}

func toProductImages(payloads []productImagePayload) []models.ProductImage {
	if len(payloads) == 0 {
		return nil
	}
	images := make([]models.ProductImage, 0, len(payloads))
	for _, image := range payloads {
		images = append(images, models.ProductImage{URL: image.URL, Alt: image.Alt})
	}
	return images
}
