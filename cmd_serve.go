package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	httpLayer "lease-engine/http"
	"lease-engine/repository"
	"lease-engine/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func buildRepository(ctx context.Context) (repository.LeaseRepository, func(), error) {
	if cfg.Database.URL == "" {
		return repository.NewLeaseRepositoryMemory(), func() {}, nil
	}
	pool, err := repository.NewPostgresPool(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	repo, err := repository.NewLeaseRepositoryPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool.Close, nil
}

func buildCache(ctx context.Context) (repository.CacheRepository, func(), error) {
	if !cfg.Redis.Enabled {
		cache, err := repository.NewMemoryCache(cfg.Memory.TTL, cfg.Memory.MaxBytes)
		if err != nil {
			return nil, nil, err
		}
		return cache, cache.Close, nil
	}
	cache := repository.NewRedisCache(cfg.Redis.Addr, cfg.Redis.TTL)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cache misses will be recomputed")
	}
	return cache, func() { _ = cache.Close() }, nil
}

func serve(ctx context.Context) error {
	leaseRepo, closeRepo, err := buildRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	cache, closeCache, err := buildCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	resolver := service.NewDiscountRateResolver(cfg.Market.MarketDefaults())
	leaseService := service.NewLeaseService(leaseRepo, cache, resolver)
	leaseHandler := httpLayer.NewLeaseHandler(leaseService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Period)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpLayer.NewRouter(leaseHandler, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("lease API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
		return err
	}

	log.Info().Msg("server exited")
	return nil
}
