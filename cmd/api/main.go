package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	server "dealer_reviews/internal/adapters/http_server"
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
	// global logger first (console in dev, JSON otherwise) so config warnings use it
	cfg := shared.Bootstrap(observability.NewLogger)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// seeds first: a bad dataset must stop us before we touch the database
	data, err := seed.Load(cfg.SeedDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.SeedDir).Msg("load seed data failed")
	}

	repo, closeRepo, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open store failed")
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Error().Err(err).Msg("close store failed")
		}
	}()
	log.Info().Str("backend", cfg.StoreBackend).Msg("store ready")

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		defer rc.Close()
		cache = rc
	}
	st := app.NewStore(repo, cache, cfg.CacheTTL).WithReseedWorkers(cfg.ReseedWorkers)

	// reseed must finish before the listener opens
	if err := app.NewReseeder(st).Run(ctx, data); err != nil {
		log.Fatal().Err(err).Msg("reseed failed")
	}

	var limiter *rate.Limiter
	if cfg.InsertRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.InsertRPS), cfg.InsertRPS)
	}

	// http
	srv := server.New(server.Options{Timeout: cfg.HTTPTimeout})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: st, InsertLimiter: limiter})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
