// Command reseed resets the dealerships and reviews collections to the seed
// data and exits, without serving HTTP.
package main

import (
	"context"
	"errors"
	"flag"

	"github.com/rs/zerolog/log"

	"dealer_reviews/internal/adapters/observability"
	redisad "dealer_reviews/internal/adapters/redis"
	"dealer_reviews/internal/app"
	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/seed"
	"dealer_reviews/internal/shared"
	"dealer_reviews/internal/storage"
)

func main() {
	ctx := context.Background()
	// 1) initialize global logger (console in dev, JSON otherwise)
	cfg := shared.Bootstrap(observability.NewLogger)

	dir := flag.String("seed-dir", cfg.SeedDir, "directory holding dealerships.json and reviews.json")
	check := flag.Bool("check", false, "only load and validate the seed files")
	flag.Parse()

	if !*check {
		if err := checkBackend(cfg); err != nil {
			log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("nothing to reseed")
		}
	}

	data, err := seed.Load(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("load seed data failed")
	}
	log.Info().
		Str("dir", *dir).
		Int("dealerships", len(data.Dealerships)).
		Int("reviews", len(data.Reviews)).
		Msg("seed data ok")
	if *check {
		return
	}

	repo, closeRepo, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store failed")
	}
	defer func() { _ = closeRepo() }()

	// a running api shares the redis cache, so flush it too
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	st := app.NewStore(repo, cache, cfg.CacheTTL).WithReseedWorkers(cfg.ReseedWorkers)
	if err := app.NewReseeder(st).Run(ctx, data); err != nil {
		_ = closeRepo()
		log.Fatal().Err(err).Msg("reseed failed")
	}
}

var errEphemeralBackend = errors.New("the in-memory store does not outlive this process; use STORE_BACKEND=mongo or -check")

// checkBackend refuses backends whose contents vanish when the tool exits.
func checkBackend(cfg shared.Config) error {
	if cfg.StoreBackend == shared.BackendMemory {
		return errEphemeralBackend
	}
	return nil
}
