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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FavoriteRepository stores favorites in MongoDB.
type FavoriteRepository struct {
	collection *mongo.Collection
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *MongoDB) *FavoriteRepository {
	return &FavoriteRepository{collection: db.Favorites}
}

// Create inserts a favorite. A second favorite for the same code yields ErrDuplicate.
func (r *FavoriteRepository) Create(ctx context.Context, fav *model.Favorite) error {
	if fav.ID.IsZero() {
		fav.ID = primitive.NewObjectID()
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now().UTC()
	}
	if fav.Tags == nil {
		fav.Tags = []string{}
	}
	if _, err := r.collection.InsertOne(ctx, fav); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// FindByID returns the user's favorite with id.
func (r *FavoriteRepository) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user_id": userID})
}

// FindByCode returns the user's favorite for a FIPE code.
func (r *FavoriteRepository) FindByCode(ctx context.Context, userID primitive.ObjectID, codigoFipe string) (*model.Favorite, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "codigo_fipe": codigoFipe})
}

// FindByIDs returns the user's favorites among ids, in no particular order.
func (r *FavoriteRepository) FindByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]*model.Favorite, error) {
	return r.find(ctx, bson.M{"user_id": userID, "_id": bson.M{"$in": ids}})
}

// ListByUser returns every favorite of a user, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Favorite, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// CountByUser returns how many favorites a user holds.
func (r *FavoriteRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

// Update persists the notes and tags of a favorite and stamps UpdatedAt.
func (r *FavoriteRepository) Update(ctx context.Context, fav *model.Favorite) error {
	now := time.Now().UTC()
	fav.UpdatedAt = &now
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": fav.ID, "user_id": fav.UserID},
		bson.M{"$set": bson.M{"anotacoes": fav.Anotacoes, "tags": fav.Tags, "updated_at": now}},
	)
	if err != nil {
		return fmt.Errorf("update favorite: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user's favorite and returns it.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	var fav model.Favorite
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&fav)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete favorite: %w", err)
	}
	return &fav, nil
}

func (r *FavoriteRepository) findOne(ctx context.Context, filter bson.M) (*model.Favorite, error) {
	var fav model.Favorite
	err := r.collection.FindOne(ctx, filter).Decode(&fav)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	return &fav, nil
}

func (r *FavoriteRepository) find(ctx context.Context, filter bson.M) ([]*model.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	favs := make([]*model.Favorite, 0)
	if err := cursor.All(ctx, &favs); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favs, nil
}
