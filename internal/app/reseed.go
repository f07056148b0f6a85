package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"dealer_reviews/internal/adapters/observability"
	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/seed"
)

var ErrAlreadyReseeded = errors.New("reseed already ran in this process")

// Reseeder resets the collections to the seed data once per process.
type Reseeder struct {
	store *Store
	ran   atomic.Bool
}

func NewReseeder(s *Store) *Reseeder { return &Reseeder{store: s} }

// Run blocks until both collections hold exactly the seed data. Failures
// wrap domain.ErrStartup.
func (r *Reseeder) Run(ctx context.Context, data seed.Data) error {
	if !r.ran.CompareAndSwap(false, true) {
		return ErrAlreadyReseeded
	}
	start := time.Now()
	if err := r.store.ReseedAll(ctx, data.Dealerships, data.Reviews); err != nil {
		return fmt.Errorf("%w: reseed: %w", domain.ErrStartup, err)
	}
	observability.ObserveSeed("dealerships", len(data.Dealerships))
	observability.ObserveSeed("reviews", len(data.Reviews))

	log.Info().
		Int("dealerships", len(data.Dealerships)).
		Int("reviews", len(data.Reviews)).
		Dur("duration", time.Since(start)).
		Msg("reseed completed")
	return nil
}
