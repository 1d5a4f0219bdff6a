// Package repository provides the persistence layer: MongoDB, Redis and in-memory stores.
package repository

import (
	"context"
	"errors"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by mutations whose target does not exist or is not owned by the caller.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("duplicate document")

// UserRepositoryInterface defines the interface for user repository operations.
// Finders return nil, nil when nothing matches.
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
}

// TokenRepositoryInterface defines the interface for token repository operations.
type TokenRepositoryInterface interface {
	Create(ctx context.Context, token *model.Token) error
	FindByToken(ctx context.Context, tokenString string) (*model.Token, error)
	DeleteByToken(ctx context.Context, tokenString string) error
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID, tokenType string) error
	IsBlacklisted(ctx context.Context, tokenString string) (bool, error)
	CleanupExpired(ctx context.Context) error
}

// FavoriteRepositoryInterface defines the interface for favorite repository operations.
// Every operation is scoped to the owning user.
type FavoriteRepositoryInterface interface {
	Create(ctx context.Context, fav *model.Favorite) error
	FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error)
	FindByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]*model.Favorite, error)
	FindByCode(ctx context.Context, userID primitive.ObjectID, codigoFipe string) (*model.Favorite, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Favorite, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, fav *model.Favorite) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error)
}

// HistoryRepositoryInterface defines the interface for history repository operations.
// Listings are ordered newest first.
type HistoryRepositoryInterface interface {
	Create(ctx context.Context, item *model.HistoryItem) error
	List(ctx context.Context, userID primitive.ObjectID, filter model.HistoryFilter) ([]*model.HistoryItem, int64, error)
	ListAll(ctx context.Context, userID primitive.ObjectID) ([]*model.HistoryItem, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.HistoryItem, error)
	DeleteAll(ctx context.Context, userID primitive.ObjectID, tipo string) (int64, error)
	TrimOldest(ctx context.Context, userID primitive.ObjectID, keep int) (int64, error)
}

// FileRepositoryInterface defines the interface for uploaded file metadata.
type FileRepositoryInterface interface {
	Create(ctx context.Context, file *model.FileRecord) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.FileRecord, error)
	FindByFilename(ctx context.Context, filename string) (*model.FileRecord, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *model.LogEntry) error
	CreateMany(ctx context.Context, entries []*model.LogEntry) error
	Query(ctx context.Context, q model.LogQuery) ([]*model.LogEntry, error)
	Count(ctx context.Context, q model.LogQuery) (int64, error)
}
