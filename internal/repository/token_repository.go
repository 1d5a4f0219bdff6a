package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TokenRepository implements TokenRepositoryInterface using MongoDB.
type TokenRepository struct {
	collection *mongo.Collection
}

// NewTokenRepository creates a new token repository.
func NewTokenRepository(db *MongoDB) *TokenRepository {
	return &TokenRepository{collection: db.Tokens}
}

// Create inserts a token.
func (r *TokenRepository) Create(ctx context.Context, token *model.Token) error {
	token.CreatedAt = time.Now().UTC()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, token); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// FindByToken finds a token by its string value.
func (r *TokenRepository) FindByToken(ctx context.Context, tokenString string) (*model.Token, error) {
	var token model.Token
	err := r.collection.FindOne(ctx, bson.M{"token": tokenString}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &token, nil
}

// DeleteByToken deletes a token by its string value. Missing tokens are not an error.
func (r *TokenRepository) DeleteByToken(ctx context.Context, tokenString string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"token": tokenString}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteByUserID deletes every token of a type held by a user.
func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID, tokenType string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "type": tokenType}); err != nil {
		return fmt.Errorf("delete user tokens: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether an unexpired blacklist entry exists for the token.
func (r *TokenRepository) IsBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"token":      tokenString,
		"type":       model.TokenTypeBlacklist,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	})
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return count > 0, nil
}

// CleanupExpired removes expired tokens. The TTL index does the same lazily.
func (r *TokenRepository) CleanupExpired(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now().UTC()}}); err != nil {
		return fmt.Errorf("cleanup tokens: %w", err)
	}
	return nil
}
