package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/storage/memory"
)

func ptr[T any](v T) *T { return &v }

func TestRepo_DealershipFilters(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	require.NoError(t, r.ReplaceDealerships(ctx, []domain.Dealership{
		{ID: 1, State: "Texas", FullName: "A"},
		{ID: 2, State: "texas", FullName: "B"},
		{ID: 3, State: "Kansas", FullName: "C"},
	}))

	all, err := r.ListDealerships(ctx, domain.DealershipFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	tx, err := r.ListDealerships(ctx, domain.DealershipFilter{State: ptr("Texas")})
	require.NoError(t, err)
	require.Len(t, tx, 1)
	require.Equal(t, int64(1), tx[0].ID)

	none, err := r.ListDealerships(ctx, domain.DealershipFilter{State: ptr("Nevada")})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	byID, err := r.FindDealerships(ctx, 3)
	require.NoError(t, err)
	require.Len(t, byID, 1)

	missing, err := r.FindDealerships(ctx, 99)
	require.NoError(t, err)
	require.NotNil(t, missing)
	require.Empty(t, missing)
}

func TestRepo_InsertReview_AllocatesAfterMax(t *testing.T) {
	ctx := context.Background()
	r := memory.New()

	first, err := r.InsertReview(ctx, domain.NewReview{Name: "empty collection"})
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)

	require.NoError(t, r.ReplaceReviews(ctx, []domain.Review{{ID: 7}, {ID: 42, Dealership: 3}, {ID: 9}}))
	next, err := r.InsertReview(ctx, domain.NewReview{Name: "n", Dealership: 3})
	require.NoError(t, err)
	require.Equal(t, int64(43), next.ID)

	forDealer, err := r.ListReviews(ctx, ptr(int64(3)))
	require.NoError(t, err)
	require.Len(t, forDealer, 2)
}

func TestRepo_InsertReview_Concurrent(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	require.NoError(t, r.ReplaceReviews(ctx, []domain.Review{{ID: 10}}))

	const n = 64
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rv, err := r.InsertReview(ctx, domain.NewReview{Name: "c"})
			if err == nil {
				ids <- rv.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
	for id := int64(11); id <= 10+n; id++ {
		require.True(t, seen[id], "missing id %d", id)
	}
}
