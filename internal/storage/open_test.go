package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/shared"
	"dealer_reviews/internal/storage"
	"dealer_reviews/internal/storage/memory"
	"dealer_reviews/internal/storage/mongodb"
)

func TestOpen_Memory(t *testing.T) {
	repo, closeFn, err := storage.Open(context.Background(), shared.Config{StoreBackend: shared.BackendMemory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := repo.(*memory.Repo); !ok {
		t.Fatalf("expected memory repo, got %T", repo)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpen_UnreachableMongoIsStartupError(t *testing.T) {
	mongodb.DefaultPingTimeout = 200 * time.Millisecond
	cfg := shared.Config{
		StoreBackend: shared.BackendMongo,
		MongoURI:     "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200",
		MongoDB:      "dealershipsDB",
	}
	_, _, err := storage.Open(context.Background(), cfg)
	if !errors.Is(err, domain.ErrStartup) {
		t.Fatalf("expected ErrStartup, got %v", err)
	}
}
