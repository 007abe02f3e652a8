package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db"
	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
	"github.com/KrishMoond/eco/pkg/types"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  title TEXT,
  comment TEXT NOT NULL,
  pros TEXT,
  cons TEXT,
  is_verified_purchase INTEGER NOT NULL DEFAULT 0,
  is_recommended INTEGER NOT NULL DEFAULT 1,
  helpful_votes INTEGER NOT NULL DEFAULT 0,
  reported_by TEXT,
  is_approved INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, user_id)
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'cod',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  subtotal NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL DEFAULT 0,
  estimated_delivery DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 1,
  line_total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

// stubProductStore tracks rating updates instead of hitting a products table.
type stubProductStore struct {
	known   map[uuid.UUID]bool
	ratings map[uuid.UUID]types.RatingSummary
}

func newStubProductStore(ids ...uuid.UUID) *stubProductStore {
	known := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &stubProductStore{
		known:   known,
		ratings: make(map[uuid.UUID]types.RatingSummary),
	}
}

func (s *stubProductStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if !s.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id}, nil
}

func (s *stubProductStore) UpdateRatings(_ context.Context, productID uuid.UUID, summary types.RatingSummary) error {
	s.ratings[productID] = summary
	return nil
}

func newReviewsTestService(t *testing.T, conn *gorm.DB, products *stubProductStore) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), products, db.NewWithConn(conn))
	require.NoError(t, err)
	return svc
}

func seedDeliveredOrder(t *testing.T, conn *gorm.DB, userID, productID uuid.UUID) {
	t.Helper()
	orderID := uuid.New()
	require.NoError(t, conn.Exec(
		`INSERT INTO orders (id, order_number, user_id, status, estimated_delivery) VALUES (?, ?, ?, ?, ?)`,
		orderID.String(), "ORD"+uuid.NewString(), userID.String(), string(enums.OrderStatusDelivered), time.Now(),
	).Error)
	require.NoError(t, conn.Exec(
		`INSERT INTO order_items (id, order_id, product_id, name) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), orderID.String(), productID.String(), "Reviewed Product",
	).Error)
}

func TestServiceCreateReviewRefreshesRatings(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	products := newStubProductStore(productID)
	svc := newReviewsTestService(t, conn, products)

	for _, rating := range []int{4, 5, 3} {
		_, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
			ProductID: productID,
			Rating:    rating,
			Comment:   "solid product, does what it says",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	summary := products.ratings[productID]
	if summary.Average != 4.0 || summary.Count != 3 {
		t.Fatalf("expected average 4.0 over 3 reviews, got %+v", summary)
	}
}

func TestServiceCreateReviewRejectsDuplicate(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	userID := uuid.New()
	input := CreateReviewInput{
		ProductID: productID,
		Rating:    5,
		Comment:   "great product, would buy again",
	}
	if _, err := svc.CreateReview(context.Background(), userID, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.CreateReview(context.Background(), userID, input)
	if err == nil {
		t.Fatal("expected duplicate review to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
	if typed.Message() != "you have already reviewed this product" {
		t.Fatalf("unexpected message: %s", typed.Message())
	}
}

func TestServiceCreateReviewUnknownProduct(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewsTestService(t, conn, newStubProductStore())

	_, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
		ProductID: uuid.New(),
		Rating:    4,
		Comment:   "review of a product that is gone",
	})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceCreateReviewMarksVerifiedPurchase(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	buyer := uuid.New()
	seedDeliveredOrder(t, conn, buyer, productID)

	verified, err := svc.CreateReview(context.Background(), buyer, CreateReviewInput{
		ProductID: productID,
		Rating:    5,
		Comment:   "arrived fast and works well",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verified.IsVerifiedPurchase {
		t.Fatal("expected verified purchase flag for delivered order")
	}

	unverified, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
		ProductID: productID,
		Rating:    3,
		Comment:   "never bought it but have opinions",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unverified.IsVerifiedPurchase {
		t.Fatal("expected unverified flag without a delivered order")
	}
}

func TestServiceDeleteReviewRecomputesRatings(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	products := newStubProductStore(productID)
	svc := newReviewsTestService(t, conn, products)

	owner := uuid.New()
	var doomed uuid.UUID
	for _, seed := range []struct {
		user   uuid.UUID
		rating int
	}{
		{uuid.New(), 4},
		{uuid.New(), 5},
		{owner, 3},
	} {
		dto, err := svc.CreateReview(context.Background(), seed.user, CreateReviewInput{
			ProductID: productID,
			Rating:    seed.rating,
			Comment:   "rating sample for the aggregate",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seed.user == owner {
			doomed = dto.ID
		}
	}

	if err := svc.DeleteReview(context.Background(), owner, doomed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := products.ratings[productID]
	if summary.Average != 4.5 || summary.Count != 2 {
		t.Fatalf("expected average 4.5 over 2 reviews after delete, got %+v", summary)
	}
}

func TestServiceUpdateForeignReviewReadsNotFound(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	dto, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
		ProductID: productID,
		Rating:    4,
		Comment:   "belongs to someone else entirely",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newRating := 1
	_, err = svc.UpdateReview(context.Background(), uuid.New(), dto.ID, UpdateReviewInput{Rating: &newRating})
	if err == nil {
		t.Fatal("expected foreign review to read as not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceUpdateReviewChangesAggregate(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	products := newStubProductStore(productID)
	svc := newReviewsTestService(t, conn, products)

	owner := uuid.New()
	dto, err := svc.CreateReview(context.Background(), owner, CreateReviewInput{
		ProductID: productID,
		Rating:    2,
		Comment:   "started rough, firmware fixed it",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newRating := 5
	updated, err := svc.UpdateReview(context.Background(), owner, dto.ID, UpdateReviewInput{Rating: &newRating})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Rating != 5 {
		t.Fatalf("expected rating 5, got %d", updated.Rating)
	}

	summary := products.ratings[productID]
	if summary.Average != 5.0 || summary.Count != 1 {
		t.Fatalf("expected refreshed aggregate, got %+v", summary)
	}
}

func TestServiceMarkHelpfulIncrements(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	dto, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
		ProductID: productID,
		Rating:    4,
		Comment:   "helpful review people agree with",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for want := 1; want <= 3; want++ {
		votes, err := svc.MarkHelpful(context.Background(), dto.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if votes != want {
			t.Fatalf("expected %d votes, got %d", want, votes)
		}
	}

	if _, err := svc.MarkHelpful(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected not found for unknown review")
	}
}

func TestServiceGetReviewRoundTrip(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	created, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
		ProductID: productID,
		Rating:    4,
		Comment:   "good value for the price",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetReview(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != created.ID || got.Rating != 4 || got.Comment != created.Comment {
		t.Fatalf("unexpected review: %+v", got)
	}

	_, err = svc.GetReview(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found for unknown review")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceReportReviewOncePerUser(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	dto, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
		ProductID: productID,
		Rating:    1,
		Comment:   "contains nothing but profanity",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reporter := uuid.New()
	if err := svc.ReportReview(context.Background(), reporter, dto.ID, "offensive language"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.ReportReview(context.Background(), reporter, dto.ID, "still offensive")
	if err == nil {
		t.Fatal("expected duplicate report to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
	if typed.Message() != "you have already reported this review" {
		t.Fatalf("unexpected message: %s", typed.Message())
	}

	// A different user can still report.
	if err := svc.ReportReview(context.Background(), uuid.New(), dto.ID, "spam"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := NewRepository(conn).FindByID(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored.ReportedBy) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(stored.ReportedBy))
	}
	if stored.ReportedBy[0].UserID != reporter || stored.ReportedBy[0].Reason != "offensive language" {
		t.Fatalf("unexpected first report: %+v", stored.ReportedBy[0])
	}
}

func TestServiceReportReviewValidation(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	dto, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
		ProductID: productID,
		Rating:    2,
		Comment:   "reported for no stated reason",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.ReportReview(context.Background(), uuid.New(), dto.ID, "")
	if err == nil {
		t.Fatal("expected error for missing reason")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}

	err = svc.ReportReview(context.Background(), uuid.New(), uuid.New(), "spam")
	if err == nil {
		t.Fatal("expected not found for unknown review")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceListByProductSortsByHelpful(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	var ids []uuid.UUID
	for _, comment := range []string{"first listing sample", "second listing sample", "third listing sample"} {
		dto, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
			ProductID: productID,
			Rating:    4,
			Comment:   comment,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, dto.ID)
	}

	// Votes: ids[0] gets 1, ids[2] gets 2, ids[1] stays at 0.
	for _, id := range []uuid.UUID{ids[0], ids[2], ids[2]} {
		if _, err := svc.MarkHelpful(context.Background(), id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	result, err := svc.ListByProduct(context.Background(), productID, ListReviewsInput{Sort: "helpful"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(result.Reviews))
	}
	if result.Reviews[0].ID != ids[2] || result.Reviews[1].ID != ids[0] || result.Reviews[2].ID != ids[1] {
		t.Fatalf("expected helpful-vote ordering, got %+v", result.Reviews)
	}
}

func TestServiceListByProductFiltersRating(t *testing.T) {
	conn := setupReviewsTestDB(t)
	productID := uuid.New()
	svc := newReviewsTestService(t, conn, newStubProductStore(productID))

	for _, rating := range []int{5, 3, 5} {
		if _, err := svc.CreateReview(context.Background(), uuid.New(), CreateReviewInput{
			ProductID: productID,
			Rating:    rating,
			Comment:   "one of several listing samples",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := svc.ListByProduct(context.Background(), productID, ListReviewsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Reviews) != 3 || all.Pagination.Total != 3 {
		t.Fatalf("expected 3 reviews, got %d (total %d)", len(all.Reviews), all.Pagination.Total)
	}

	five := 5
	filtered, err := svc.ListByProduct(context.Background(), productID, ListReviewsInput{Rating: &five})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered.Reviews) != 2 {
		t.Fatalf("expected 2 five-star reviews, got %d", len(filtered.Reviews))
	}

	bad := 9
	if _, err := svc.ListByProduct(context.Background(), productID, ListReviewsInput{Rating: &bad}); err == nil {
		t.Fatal("expected error for out-of-range rating filter")
	}
}
