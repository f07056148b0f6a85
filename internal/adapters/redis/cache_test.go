package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "dealer_reviews/internal/adapters/redis"
	"dealer_reviews/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	var out []domain.Dealership
	ok, err := c.Get(ctx, "dealers:all", &out)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := []domain.Dealership{{ID: 5, State: "California", Lat: "34.0522", FullName: "Best Motors"}}
	if err := c.Set(ctx, "dealers:all", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("dealers:all"); ttl <= 0 {
		t.Fatalf("expected ttl set, got %v", ttl)
	}

	ok, err = c.Get(ctx, "dealers:all", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(out) != 1 || out[0].Lat != "34.0522" || out[0].FullName != "Best Motors" {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestCache_DelPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	for _, k := range []string{"dealers:all", "dealers:state:Texas", "dealers:id:5", "other:key"} {
		if err := c.Set(ctx, k, 1, 60); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	if err := c.DelPrefix(ctx, "dealers:"); err != nil {
		t.Fatalf("DelPrefix: %v", err)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "other:key" {
		t.Fatalf("unexpected remaining keys: %v", keys)
	}

	// nothing left to delete
	if err := c.DelPrefix(ctx, "dealers:"); err != nil {
		t.Fatalf("DelPrefix on empty: %v", err)
	}
}
