package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/pagination"
)

// ReviewDTO is the API shape of a product review.
type ReviewDTO struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"productId"`
	UserID             uuid.UUID `json:"userId"`
	Rating             int       `json:"rating"`
	Title              *string   `json:"title,omitempty"`
	Comment            string    `json:"comment"`
	Pros               []string  `json:"pros"`
	Cons               []string  `json:"cons"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	IsRecommended      bool      `json:"isRecommended"`
	HelpfulVotes       int       `json:"helpfulVotes"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ReviewListResult is one page of reviews.
type ReviewListResult struct {
	Reviews    []ReviewDTO     `json:"reviews"`
	Pagination pagination.Meta `json:"pagination"`
}

// NewReviewDTO maps the storage model to its API shape.
func NewReviewDTO(review *models.Review) *ReviewDTO {
	if review == nil {
		return nil
	}

	dto := &ReviewDTO{
		ID:                 review.ID,
		ProductID:          review.ProductID,
		UserID:             review.UserID,
		Rating:             review.Rating,
		Title:              review.Title,
		Comment:            review.Comment,
		Pros:               []string(review.Pros),
		Cons:               []string(review.Cons),
		IsVerifiedPurchase: review.IsVerifiedPurchase,
		IsRecommended:      review.IsRecommended,
		HelpfulVotes:       review.HelpfulVotes,
		CreatedAt:          review.CreatedAt,
		UpdatedAt:          review.UpdatedAt,
	}
	if dto.Pros == nil {
		dto.Pros = []string{}
	}
	if dto.Cons == nil {
		dto.Cons = []string{}
	}
	return dto
}
