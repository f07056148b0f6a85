package main

import (
	"errors"
	"testing"

	"dealer_reviews/internal/shared"
)

func TestCheckBackend(t *testing.T) {
	if err := checkBackend(shared.Config{StoreBackend: shared.BackendMemory}); !errors.Is(err, errEphemeralBackend) {
		t.Fatalf("memory backend should be refused, got %v", err)
	}
	if err := checkBackend(shared.Config{StoreBackend: shared.BackendMongo}); err != nil {
		t.Fatalf("mongo backend should pass, got %v", err)
	}
}
