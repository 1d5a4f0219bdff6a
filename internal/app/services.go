package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/circuitbreaker"
	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
	"github.com/guttosm/fipe-service/internal/service/cache"
)

// ServiceComponents holds the business services.
type ServiceComponents struct {
	Lookups   *fipe.Service
	Auth      service.AuthService
	Favorites service.FavoriteService
	History   service.HistoryService
	Uploads   service.UploadService
	Logging   service.LoggingService

	UpstreamBreaker *circuitbreaker.CircuitBreaker

	lookupCache *cache.ShardedCache
	recorder    *service.HistoryRecorder
}

// Stop drains background workers owned by the services.
func (s *ServiceComponents) Stop() {
	if s.recorder != nil {
		s.recorder.Stop()
		recorded, dropped, failed := s.recorder.Stats()
		log.Info().
			Int64("recorded", recorded).
			Int64("dropped", dropped).
			Int64("failed", failed).
			Msg("History recorder stopped")
	}
	middleware.StopAsyncLogger()
	if s.lookupCache != nil {
		s.lookupCache.Stop()
	}
}

// InitializeServices wires the lookup pipeline and the per-user services on top of storage.
func InitializeServices(cfg config.Config, storage *StorageComponents) (*ServiceComponents, error) {
	upstreamBreaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.Fipe.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.Fipe.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.Fipe.CircuitBreakerTimeout,
		Name:             "fipe-upstream",
		IsFailure:        fipe.IsUpstreamFailure,
	})

	retry := fipe.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Fipe.MaxRetries
	if cfg.Fipe.RetryBackoff > 0 {
		retry.InitialBackoff = cfg.Fipe.RetryBackoff
	}

	client := fipe.NewHTTPClient(fipe.ClientConfig{
		BaseURL:   cfg.Fipe.BaseURL,
		Timeout:   cfg.Fipe.Timeout,
		UserAgent: cfg.Fipe.UserAgent,
		Retry:     retry,
	}, nil, upstreamBreaker)

	lookupCache := cache.NewShardedCache(cfg.Cache.Size, cfg.Cache.Shards, cache.WithName("fipe"))
	lookups := fipe.NewService(client, lookupCache, fipe.NewEnricher(), fipe.Config{
		CatalogTTL:        cfg.Cache.CatalogTTL,
		PriceTTL:          cfg.Cache.PriceTTL,
		SearchConcurrency: cfg.Fipe.SearchConcurrency,
		MaxSearchResults:  cfg.Fipe.MaxSearchResults,
	})

	uploads, err := service.NewUploadService(storage.Files, service.UploadConfig{
		Dir:      cfg.Upload.Dir,
		MaxSize:  cfg.Upload.MaxSize,
		MaxFiles: cfg.Upload.MaxFiles,
	})
	if err != nil {
		lookupCache.Stop()
		return nil, err
	}

	history := service.NewHistoryService(storage.History, service.HistoryConfig{
		MaxItems:    cfg.App.MaxHistoryItems,
		PageSize:    cfg.App.PageSize,
		MaxPageSize: cfg.App.MaxPageSize,
	})
	recorder := service.NewHistoryRecorder(history, service.DefaultHistoryRecorderConfig())
	lookups.Subscribe(recorder.Record)

	logging := service.NewLoggingService(storage.Logs)
	middleware.InitAsyncLogger(logging, middleware.DefaultAsyncLoggerConfig())

	auth := service.NewAuthService(storage.Users, storage.Tokens, cfg.Auth)
	ensureAdmin(context.Background(), auth, cfg.Auth)

	return &ServiceComponents{
		Lookups: lookups,
		Auth:    auth,
		Favorites: service.NewFavoriteService(storage.Favorites, service.FavoriteConfig{
			MaxFavorites:   cfg.App.MaxFavorites,
			MaxComparisons: cfg.App.MaxComparisons,
		}),
		History:         history,
		Uploads:         uploads,
		Logging:         logging,
		UpstreamBreaker: upstreamBreaker,
		lookupCache:     lookupCache,
		recorder:        recorder,
	}, nil
}
