package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ReviewReport is one abuse report against a review. A user reports a review
// at most once; the service dedupes on UserID.
type ReviewReport struct {
	UserID     uuid.UUID `json:"userId"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reportedAt"`
}

// Review is one user's verdict on one product. A user reviews a product at
// most once, enforced by a unique index.
type Review struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID      `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_review_product_user,priority:1"`
	UserID             uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_review_product_user,priority:2"`
	Rating             int            `gorm:"column:rating;not null"`
	Title              *string        `gorm:"column:title"`
	Comment            string         `gorm:"column:comment;not null"`
	Pros               pq.StringArray `gorm:"column:pros;type:text[]"`
	Cons               pq.StringArray `gorm:"column:cons;type:text[]"`
	IsVerifiedPurchase bool           `gorm:"column:is_verified_purchase;not null;default:false"`
	IsRecommended      bool           `gorm:"column:is_recommended;not null;default:true"`
	HelpfulVotes       int            `gorm:"column:helpful_votes;not null;default:0"`
	ReportedBy         []ReviewReport `gorm:"column:reported_by;type:jsonb;serializer:json"`
	IsApproved         bool           `gorm:"column:is_approved;not null;default:true"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
