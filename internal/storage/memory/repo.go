// Package memory is a process-local Repository used by STORE_BACKEND=memory
// and by tests that do not need a database.
package memory

import (
	"context"
	"sync"

	"dealer_reviews/internal/domain"
)

type Repo struct {
	dmu     sync.RWMutex
	dealers []domain.Dealership

	// rmu guards reviews and the read-max-then-append in InsertReview.
	rmu     sync.RWMutex
	reviews []domain.Review
}

func New() *Repo { return &Repo{} }

func (r *Repo) ListDealerships(_ context.Context, f domain.DealershipFilter) ([]domain.Dealership, error) {
	r.dmu.RLock()
	defer r.dmu.RUnlock()
	out := make([]domain.Dealership, 0, len(r.dealers))
	for _, d := range r.dealers {
		if f.State != nil && d.State != *f.State {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *Repo) FindDealerships(_ context.Context, id int64) ([]domain.Dealership, error) {
	r.dmu.RLock()
	defer r.dmu.RUnlock()
	out := []domain.Dealership{}
	for _, d := range r.dealers {
		if d.ID == id {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *Repo) ListReviews(_ context.Context, dealershipID *int64) ([]domain.Review, error) {
	r.rmu.RLock()
	defer r.rmu.RUnlock()
	out := make([]domain.Review, 0, len(r.reviews))
	for _, rv := range r.reviews {
		if dealershipID != nil && rv.Dealership != *dealershipID {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}

func (r *Repo) InsertReview(_ context.Context, nr domain.NewReview) (domain.Review, error) {
	r.rmu.Lock()
	defer r.rmu.Unlock()
	rv := nr.WithID(domain.MaxReviewID(r.reviews) + 1)
	r.reviews = append(r.reviews, rv)
	return rv, nil
}

func (r *Repo) ReplaceDealerships(_ context.Context, ds []domain.Dealership) error {
	cp := append([]domain.Dealership(nil), ds...)
	r.dmu.Lock()
	r.dealers = cp
	r.dmu.Unlock()
	return nil
}

func (r *Repo) ReplaceReviews(_ context.Context, rs []domain.Review) error {
	cp := append([]domain.Review(nil), rs...)
	r.rmu.Lock()
	r.reviews = cp
	r.rmu.Unlock()
	return nil
}
