package types

// RatingSummary is the denormalized review aggregate stored on a product.
// It is recomputed from the review table on every review mutation; the stored
// copy exists only so product listings avoid a join.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
