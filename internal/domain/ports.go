package domain

import "context"

// Repository owns the dealerships and reviews collections.
type Repository interface {
	// Read paths
	ListDealerships(ctx context.Context, f DealershipFilter) ([]Dealership, error)
	FindDealerships(ctx context.Context, id int64) ([]Dealership, error)
	ListReviews(ctx context.Context, dealershipID *int64) ([]Review, error)

	// Write paths
	// InsertReview allocates max(id)+1 atomically with respect to other inserts.
	InsertReview(ctx context.Context, r NewReview) (Review, error)
	ReplaceDealerships(ctx context.Context, ds []Dealership) error
	// ReplaceReviews also resets the id sequence to MaxReviewID(rs).
	ReplaceReviews(ctx context.Context, rs []Review) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}
