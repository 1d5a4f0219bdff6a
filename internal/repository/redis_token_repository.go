package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const redisTokenPrefix = "token:"

// RedisTokenRepository stores refresh tokens and the access token blacklist
// in Redis. Entries expire natively with the token.
type RedisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository creates a Redis backed token repository.
func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisTokenRepository{client: client}
}

func tokenKey(tokenType, token string) string {
	return redisTokenPrefix + tokenType + ":" + token
}

func userTokensKey(userID primitive.ObjectID, tokenType string) string {
	return redisTokenPrefix + "user:" + userID.Hex() + ":" + tokenType
}

// Create stores a token until its expiry and indexes it under its user.
func (r *RedisTokenRepository) Create(ctx context.Context, token *model.Token) error {
	token.CreatedAt = time.Now().UTC()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	key := tokenKey(token.Type, token.Token)
	setKey := userTokensKey(token.UserID, token.Type)
	pipe := r.client.TxPipeline()
	pipe.SetNX(ctx, key, data, ttl)
	pipe.SAdd(ctx, setKey, token.Token)
	pipe.Expire(ctx, setKey, ttl)
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("redis store token: %w", err)
	}
	if set, ok := cmds[0].(*redis.BoolCmd); ok && !set.Val() {
		return ErrDuplicate
	}
	return nil
}

// FindByToken returns a stored refresh or blacklist token.
func (r *RedisTokenRepository) FindByToken(ctx context.Context, tokenString string) (*model.Token, error) {
	for _, tokenType := range []string{model.TokenTypeRefresh, model.TokenTypeBlacklist} {
		data, err := r.client.Get(ctx, tokenKey(tokenType, tokenString)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get token: %w", err)
		}
		var token model.Token
		if err := json.Unmarshal(data, &token); err != nil {
			return nil, fmt.Errorf("unmarshal token: %w", err)
		}
		return &token, nil
	}
	return nil, nil
}

// DeleteByToken removes a token of any type.
func (r *RedisTokenRepository) DeleteByToken(ctx context.Context, tokenString string) error {
	token, err := r.FindByToken(ctx, tokenString)
	if err != nil || token == nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token.Type, tokenString))
	pipe.SRem(ctx, userTokensKey(token.UserID, token.Type), tokenString)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete token: %w", err)
	}
	return nil
}

// DeleteByUserID removes every token of a type held by a user.
func (r *RedisTokenRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID, tokenType string) error {
	setKey := userTokensKey(userID, tokenType)
	tokens, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("redis list user tokens: %w", err)
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, tokenKey(tokenType, t))
	}
	keys = append(keys, setKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete user tokens: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token is on the blacklist.
func (r *RedisTokenRepository) IsBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	n, err := r.client.Exists(ctx, tokenKey(model.TokenTypeBlacklist, tokenString)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check blacklist: %w", err)
	}
	return n > 0, nil
}

// CleanupExpired is a no-op; Redis expires keys itself.
func (r *RedisTokenRepository) CleanupExpired(context.Context) error {
	return nil
}

// HealthCheck pings Redis.
func (r *RedisTokenRepository) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
