// Package storage picks the Repository named by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/shared"
	"dealer_reviews/internal/storage/memory"
	"dealer_reviews/internal/storage/mongodb"
)

// Open connects the configured backend. The returned close func is never nil.
// Failures wrap domain.ErrStartup.
func Open(ctx context.Context, cfg shared.Config) (domain.Repository, func() error, error) {
	if cfg.StoreBackend == shared.BackendMemory {
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return memory.New(), func() error { return nil }, nil
	}

	access, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrStartup, err)
	}
	repo, err := mongodb.Open(ctx, access)
	if err != nil {
		_ = access.Disconnect()
		return nil, nil, fmt.Errorf("%w: prepare collections: %w", domain.ErrStartup, err)
	}
	return repo, access.Disconnect, nil
}
