package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/validation"
)

const dealersKeyPrefix = "dealers:"

// Store is the only path to the collections. Dealership reads go through
// the cache; reviews are read from the repository so an inserted review is
// visible to the next read.
type Store struct {
	repo     domain.Repository
	cache    domain.Cache // optional
	cacheTTL time.Duration
	workers  int
}

func NewStore(r domain.Repository, c domain.Cache, ttl time.Duration) *Store {
	return &Store{repo: r, cache: c, cacheTTL: ttl, workers: 2}
}

// WithReseedWorkers bounds how many collections ReseedAll rewrites at once.
func (s *Store) WithReseedWorkers(n int) *Store {
	if n > 0 {
		s.workers = n
	}
	return s
}

func (s *Store) ListDealerships(ctx context.Context, f domain.DealershipFilter) ([]domain.Dealership, error) {
	key := dealersKeyPrefix + "all"
	if f.State != nil {
		key = dealersKeyPrefix + "state:" + *f.State
	}
	return s.cachedDealers(ctx, key, func() ([]domain.Dealership, error) {
		return s.repo.ListDealerships(ctx, f)
	})
}

// GetDealership returns every dealership whose id equals id: zero or one in practice.
func (s *Store) GetDealership(ctx context.Context, id int64) ([]domain.Dealership, error) {
	key := fmt.Sprintf("%sid:%d", dealersKeyPrefix, id)
	return s.cachedDealers(ctx, key, func() ([]domain.Dealership, error) {
		return s.repo.FindDealerships(ctx, id)
	})
}

func (s *Store) cachedDealers(ctx context.Context, key string, load func() ([]domain.Dealership, error)) ([]domain.Dealership, error) {
	if s.cache != nil {
		var hit []domain.Dealership
		ok, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if ok {
			return hit, nil
		}
	}

	ds, err := load()
	if err != nil {
		return nil, err
	}
	if ds == nil {
		ds = []domain.Dealership{}
	}
	if s.cache != nil {
		// copy so the cached value never aliases the caller's slice
		cp := append([]domain.Dealership(nil), ds...)
		if err := s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return ds, nil
}

func (s *Store) ListReviews(ctx context.Context, dealershipID *int64) ([]domain.Review, error) {
	rs, err := s.repo.ListReviews(ctx, dealershipID)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []domain.Review{}
	}
	return rs, nil
}

// InsertReview validates a raw candidate and appends it under a fresh id.
// A rejected candidate never reaches the repository.
func (s *Store) InsertReview(ctx context.Context, candidate []byte) (domain.Review, error) {
	doc, err := decodeDoc(candidate)
	if err != nil {
		return domain.Review{}, err
	}
	// the record is built from the same document the schema saw
	if err := validation.ValidateValue(validation.KindReviewCandidate, doc); err != nil {
		return domain.Review{}, err
	}
	nr, err := newReviewFrom(doc)
	if err != nil {
		return domain.Review{}, err
	}
	return s.repo.InsertReview(ctx, nr)
}

func decodeDoc(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &validation.Error{
			Kind:   validation.KindReviewCandidate,
			Fields: []validation.FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}
	if doc == nil {
		return nil, &validation.Error{
			Kind:   validation.KindReviewCandidate,
			Fields: []validation.FieldError{{Field: "(root)", Message: "expected an object"}},
		}
	}
	return doc, nil
}

// newReviewFrom reads exact-case keys only. Integers written with a zero
// fraction (2021.0) pass the schema as integers and are accepted here too.
func newReviewFrom(doc map[string]any) (domain.NewReview, error) {
	var (
		nr   domain.NewReview
		errs []validation.FieldError
	)
	str := func(k string) string {
		v, ok := doc[k].(string)
		if !ok {
			errs = append(errs, validation.FieldError{Field: k, Message: "Invalid type. Expected: string"})
		}
		return v
	}
	integer := func(k string) int64 {
		n, ok := doc[k].(json.Number)
		if ok {
			if i, err := n.Int64(); err == nil {
				return i
			}
			if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
				return int64(f)
			}
		}
		errs = append(errs, validation.FieldError{Field: k, Message: "Invalid type. Expected: integer"})
		return 0
	}

	nr.Name = str("name")
	nr.Dealership = integer("dealership")
	nr.Review = str("review")
	purchase, ok := doc["purchase"].(bool)
	if !ok {
		errs = append(errs, validation.FieldError{Field: "purchase", Message: "Invalid type. Expected: boolean"})
	}
	nr.Purchase = purchase
	nr.PurchaseDate = str("purchase_date")
	nr.CarMake = str("car_make")
	nr.CarModel = str("car_model")
	nr.CarYear = int(integer("car_year"))

	if len(errs) > 0 {
		return domain.NewReview{}, &validation.Error{Kind: validation.KindReviewCandidate, Fields: errs}
	}
	return nr, nil
}

// ReseedAll replaces both collections with trusted seed records, skipping
// validation, and drops every cached dealership read.
func (s *Store) ReseedAll(ctx context.Context, ds []domain.Dealership, rs []domain.Review) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	g.Go(func() error { return s.repo.ReplaceDealerships(gctx, ds) })
	g.Go(func() error { return s.repo.ReplaceReviews(gctx, rs) })
	if err := g.Wait(); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DelPrefix(ctx, dealersKeyPrefix); err != nil {
			return fmt.Errorf("flush dealership cache: %w", err)
		}
	}
	return nil
}
