package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dealer_reviews/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors show up in the exposition
	observability.ObserveHTTP("/fetchDealers", "GET", 200, 12*time.Millisecond)
	observability.ObserveStore("reviews", "insert", errors.New("boom"), time.Millisecond)
	observability.ObserveSeed("dealerships", 6)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"dealerdb_http_requests_total",
		`dealerdb_store_operations_total{collection="reviews",op="insert",result="error"} 1`,
		`dealerdb_seeded_documents{collection="dealerships"} 6`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
