package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/circuitbreaker"
	"github.com/guttosm/fipe-service/internal/http"
	"github.com/guttosm/fipe-service/internal/repository"
)

// memoryLogsLimit bounds the in-memory log store used without MongoDB.
const memoryLogsLimit = 10000

// StorageComponents holds the repositories selected for this process.
type StorageComponents struct {
	Users     repository.UserRepositoryInterface
	Tokens    repository.TokenRepositoryInterface
	Favorites repository.FavoriteRepositoryInterface
	History   repository.HistoryRepositoryInterface
	Files     repository.FileRepositoryInterface
	Logs      repository.LogsRepositoryInterface

	// Persistent reports whether request logs are worth persisting.
	Persistent bool

	Checkers map[string]http.HealthChecker
	Breakers map[string]*circuitbreaker.CircuitBreaker

	closers []func(context.Context) error
}

// Close releases database and cache connections.
func (s *StorageComponents) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to close storage connection")
		}
	}
}

func newStorageComponents() *StorageComponents {
	return &StorageComponents{
		Checkers: make(map[string]http.HealthChecker),
		Breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// InitializeStorage picks MongoDB repositories when enabled, in-memory ones
// otherwise. The token store prefers Redis, then MongoDB, then memory.
func InitializeStorage(cfg config.Config) (*StorageComponents, error) {
	storage := newStorageComponents()

	if cfg.Database.Enabled {
		if err := storage.useMongo(cfg.Database); err != nil {
			return nil, err
		}
	} else {
		log.Warn().Msg("MongoDB disabled - using in-memory repositories")
		storage.useMemory()
	}

	if cfg.Redis.Enabled {
		if err := storage.useRedisTokens(cfg.Redis); err != nil {
			storage.Close(context.Background())
			return nil, err
		}
	}

	return storage, nil
}

func (s *StorageComponents) useMemory() {
	s.Users = repository.NewMemoryUserRepository()
	s.Tokens = repository.NewMemoryTokenRepository()
	s.Favorites = repository.NewMemoryFavoriteRepository()
	s.History = repository.NewMemoryHistoryRepository()
	s.Files = repository.NewMemoryFileRepository()
	s.Logs = repository.NewMemoryLogsRepository(memoryLogsLimit)
}

func (s *StorageComponents) useMongo(cfg config.DatabaseConfig) error {
	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		return fmt.Errorf("initialize mongodb: %w", err)
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")
	s.closers = append(s.closers, db.Close)

	if ttlDays := int(cfg.LogsTTL.Hours() / 24); ttlDays > 0 {
		if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
			log.Warn().Err(err).Msg("Failed to set logs TTL index")
		}
	}

	breakerCfg := circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
	}
	breaker := func(name string) *circuitbreaker.CircuitBreaker {
		cb := repository.NewStoreBreaker("mongodb-"+name, breakerCfg)
		s.Breakers["mongodb_"+name] = cb
		return cb
	}

	s.Users = repository.NewUserRepositoryWithCircuitBreaker(repository.NewUserRepository(db), breaker("users"))
	s.Tokens = repository.NewTokenRepositoryWithCircuitBreaker(repository.NewTokenRepository(db), breaker("tokens"))
	s.Favorites = repository.NewFavoriteRepositoryWithCircuitBreaker(repository.NewFavoriteRepository(db), breaker("favorites"))
	s.History = repository.NewHistoryRepositoryWithCircuitBreaker(repository.NewHistoryRepository(db), breaker("history"))
	s.Files = repository.NewFileRepositoryWithCircuitBreaker(repository.NewFileRepository(db), breaker("files"))
	s.Logs = repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), breaker("logs"))
	s.Persistent = true

	s.Checkers["mongodb"] = http.HealthCheckFunc(db.HealthCheck)
	return nil
}
