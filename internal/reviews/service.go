package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db"
	"github.com/KrishMoond/eco/pkg/db/models"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
	"github.com/KrishMoond/eco/pkg/pagination"
	"github.com/KrishMoond/eco/pkg/types"
)

// Service exposes review CRUD plus helpful votes and abuse reports.
type Service interface {
	CreateReview(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	GetReview(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID, input ListReviewsInput) (*ReviewListResult, error)
	MarkHelpful(ctx context.Context, reviewID uuid.UUID) (int, error)
	ReportReview(ctx context.Context, userID, reviewID uuid.UUID, reason string) error
}

// CreateReviewInput is the validated review payload.
type CreateReviewInput struct {
	ProductID     uuid.UUID
	Rating        int
	Title         *string
	Comment       string
	Pros          []string
	Cons          []string
	IsRecommended *bool
}

// UpdateReviewInput holds optional mutation values for a review.
type UpdateReviewInput struct {
	Rating        *int
	Title         *string
	Comment       *string
	Pros          *[]string
	Cons          *[]string
	IsRecommended *bool
}

// ListReviewsInput filters the per-product review listing. Sort accepts
// "rating" and "helpful"; anything else reads newest first.
type ListReviewsInput struct {
	Pagination pagination.Params
	Rating     *int
	Sort       string
}

type productStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateRatings(ctx context.Context, productID uuid.UUID, summary types.RatingSummary) error
}

type service struct {
	repo     *Repository
	products productStore
	dbClient *db.Client
}

// NewService constructs a reviews service instance.
func NewService(repo *Repository, products productStore, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product store required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, products: products, dbClient: dbClient}, nil
}

// CreateReview adds one review per user per product and refreshes the
// product's rating summary.
func (s *service) CreateReview(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	verified, err := s.repo.HasDeliveredOrderWithProduct(ctx, userID, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	recommended := true
	if input.IsRecommended != nil {
		recommended = *input.IsRecommended
	}

	review := &models.Review{
		ID:                 uuid.New(),
		ProductID:          input.ProductID,
		UserID:             userID,
		Rating:             input.Rating,
		Title:              input.Title,
		Comment:            input.Comment,
		Pros:               pq.StringArray(input.Pros),
		Cons:               pq.StringArray(input.Cons),
		IsVerifiedPurchase: verified,
		IsRecommended:      recommended,
		IsApproved:         true,
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
	}

	if err := s.refreshRatings(ctx, input.ProductID); err != nil {
		return nil, err
	}
	return NewReviewDTO(created), nil
}

// UpdateReview edits the caller's review. Other users' reviews read as not
// found.
func (s *service) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	review, err := s.loadOwned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
		}
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = input.Title
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	if input.Pros != nil {
		review.Pros = pq.StringArray(append([]string(nil), (*input.Pros)...))
	}
	if input.Cons != nil {
		review.Cons = pq.StringArray(append([]string(nil), (*input.Cons)...))
	}
	if input.IsRecommended != nil {
		review.IsRecommended = *input.IsRecommended
	}

	updated, err := s.repo.Update(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
	}

	if err := s.refreshRatings(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return NewReviewDTO(updated), nil
}

// DeleteReview removes the caller's review and refreshes the product rating.
func (s *service) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.loadOwned(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete review")
	}
	return s.refreshRatings(ctx, review.ProductID)
}

// ListByProduct pages through a product's approved reviews.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, input ListReviewsInput) (*ReviewListResult, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating filter must be between 1 and 5")
	}

	params := input.Pagination.Normalize()
	rows, total, err := s.repo.ListByProduct(ctx, productID, params, input.Rating, input.Sort)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	dtos := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewReviewDTO(&rows[i]))
	}
	return &ReviewListResult{
		Reviews:    dtos,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}

// GetReview returns a single review by id.
func (s *service) GetReview(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return NewReviewDTO(review), nil
}

// ReportReview records an abuse report against a review. A user can report a
// given review once.
func (s *service) ReportReview(ctx context.Context, userID, reviewID uuid.UUID, reason string) error {
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "report reason is required")
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}

	for _, report := range review.ReportedBy {
		if report.UserID == userID {
			return pkgerrors.New(pkgerrors.CodeConflict, "you have already reported this review")
		}
	}

	review.ReportedBy = append(review.ReportedBy, models.ReviewReport{
		UserID:     userID,
		Reason:     reason,
		ReportedAt: time.Now(),
	})
	if _, err := s.repo.Update(ctx, review); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: report review")
	}
	return nil
}

// MarkHelpful increments the review's helpful vote counter.
func (s *service) MarkHelpful(ctx context.Context, reviewID uuid.UUID) (int, error) {
	votes, err := s.repo.IncrementHelpful(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark helpful")
	}
	return votes, nil
}

func (s *service) loadOwned(ctx context.Context, userID, reviewID uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	// Ownership failures read as not found so review ids don't leak.
	if review.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return review, nil
}

// refreshRatings recomputes the product rating summary from scratch, so
// repeated calls land on the same value.
func (s *service) refreshRatings(ctx context.Context, productID uuid.UUID) error {
	average, count, err := s.repo.Aggregate(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate ratings")
	}

	summary := types.RatingSummary{
		Average: math.Round(average*10) / 10,
		Count:   count,
	}
	if err := s.products.UpdateRatings(ctx, productID, summary); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product ratings")
	}
	return nil
}
