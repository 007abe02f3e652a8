package orders

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// NumberSource hands out monotonically increasing order sequence values.
type NumberSource interface {
	Next(ctx context.Context) (int64, error)
}

// sequenceSource reads the Postgres sequence backing order numbers.
type sequenceSource struct {
	db *gorm.DB
}

// NewSequenceSource returns a NumberSource backed by order_number_seq.
func NewSequenceSource(db *gorm.DB) NumberSource {
	return &sequenceSource{db: db}
}

func (s *sequenceSource) Next(ctx context.Context) (int64, error) {
	var value int64
	if err := s.db.WithContext(ctx).Raw("SELECT nextval('order_number_seq')").Scan(&value).Error; err != nil {
		return 0, fmt.Errorf("next order sequence: %w", err)
	}
	return value, nil
}

// FormatOrderNumber builds the human-facing order number from the creation
// time and a sequence value. The sequence keeps concurrent checkouts within
// the same millisecond distinct; the unique index on order_number backstops it.
func FormatOrderNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("ORD%d%04d", now.UnixMilli(), seq%10000)
}
