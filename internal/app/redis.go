package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/http"
	"github.com/guttosm/fipe-service/internal/repository"
)

const redisConnectTimeout = 5 * time.Second

// newRedisClient connects to Redis and verifies the connection.
func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// useRedisTokens moves refresh tokens and the access token blacklist to Redis.
func (s *StorageComponents) useRedisTokens(cfg config.RedisConfig) error {
	client, err := newRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("initialize redis: %w", err)
	}
	log.Info().Str("addr", cfg.Addr).Msg("Connected to Redis - storing tokens in Redis")
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	tokens := repository.NewRedisTokenRepository(client)
	s.Tokens = tokens
	s.Checkers["redis"] = http.HealthCheckFunc(tokens.HealthCheck)
	return nil
}
