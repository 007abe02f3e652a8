package controllers

import (
	"net/http"
	"strings"

	"github.com/KrishMoond/eco/api/responses"
	"github.com/KrishMoond/eco/api/validators"
	"github.com/KrishMoond/eco/internal/reviews"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
	"github.com/KrishMoond/eco/pkg/logger"
)

type createReviewPayload struct {
	ProductID     string   `json:"productId" validate:"required,uuid"`
	Rating        int      `json:"rating" validate:"required,min=1,max=5"`
	Title         *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment       string   `json:"comment" validate:"required,min=5,max=2000"`
	Pros          []string `json:"pros,omitempty" validate:"dive,max=200"`
	Cons          []string `json:"cons,omitempty" validate:"dive,max=200"`
	IsRecommended *bool    `json:"isRecommended,omitempty"`
}

type reportReviewPayload struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type updateReviewPayload struct {
	Rating        *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title         *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment       *string   `json:"comment,omitempty" validate:"omitempty,min=5,max=2000"`
	Pros          *[]string `json:"pros,omitempty"`
	Cons          *[]string `json:"cons,omitempty"`
	IsRecommended *bool     `json:"isRecommended,omitempty"`
}

// ProductReviews lists approved reviews for a product.
func ProductReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		productID, err := urlParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := reviews.ListReviewsInput{
			Pagination: params,
			Sort:       strings.TrimSpace(r.URL.Query().Get("sort")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("rating")); raw != "" {
			rating, err := validators.ParseQueryInt(r, "rating", 0, 1, 5)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Rating = &rating
		}

		result, err := svc.ListByProduct(ctx, productID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ReviewCreate posts a review for a product the caller may have purchased.
func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDField(payload.ProductID, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review, err := svc.CreateReview(ctx, userID, reviews.CreateReviewInput{
			ProductID:     productID,
			Rating:        payload.Rating,
			Title:         payload.Title,
			Comment:       payload.Comment,
			Pros:          payload.Pros,
			Cons:          payload.Cons,
			IsRecommended: payload.IsRecommended,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteCreated(w, "review submitted", review)
	}
}

// ReviewGet returns a single review.
func ReviewGet(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		reviewID, err := urlParamUUID(r, "reviewId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review, err := svc.GetReview(ctx, reviewID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

// ReviewUpdate edits one of the caller's reviews.
func ReviewUpdate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reviewID, err := urlParamUUID(r, "reviewId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review, err := svc.UpdateReview(ctx, userID, reviewID, reviews.UpdateReviewInput{
			Rating:        payload.Rating,
			Title:         payload.Title,
			Comment:       payload.Comment,
			Pros:          payload.Pros,
			Cons:          payload.Cons,
			IsRecommended: payload.IsRecommended,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "review updated", review)
	}
}

// ReviewDelete removes one of the caller's reviews.
func ReviewDelete(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reviewID, err := urlParamUUID(r, "reviewId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteReview(ctx, userID, reviewID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "review deleted", nil)
	}
}

// ReviewReport files an abuse report against a review.
func ReviewReport(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reviewID, err := urlParamUUID(r, "reviewId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload reportReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ReportReview(ctx, userID, reviewID, payload.Reason); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "review reported", nil)
	}
}

// ReviewMarkHelpful bumps the helpful counter on a review.
func ReviewMarkHelpful(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		reviewID, err := urlParamUUID(r, "reviewId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		count, err := svc.MarkHelpful(ctx, reviewID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"helpfulCount": count})
	}
}
