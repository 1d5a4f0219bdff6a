package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryRepository stores consultation history in MongoDB.
type HistoryRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *MongoDB) *HistoryRepository {
	return &HistoryRepository{collection: db.History}
}

var newestFirst = bson.D{{Key: "consultado_em", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts a history item.
func (r *HistoryRepository) Create(ctx context.Context, item *model.HistoryItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if item.ConsultadoEm.IsZero() {
		item.ConsultadoEm = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// List returns one page of the user's history and the total matching the filter.
func (r *HistoryRepository) List(ctx context.Context, userID primitive.ObjectID, filter model.HistoryFilter) ([]*model.HistoryItem, int64, error) {
	query := bson.M{"user_id": userID}
	if filter.Tipo != "" {
		query["tipo"] = filter.Tipo
	}
	if filter.Marca != "" {
		query["marca"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Marca), Options: "i"}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	opts := options.Find().SetSort(newestFirst)
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	items, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll returns the user's whole history, newest first.
func (r *HistoryRepository) ListAll(ctx context.Context, userID primitive.ObjectID) ([]*model.HistoryItem, error) {
	return r.find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(newestFirst))
}

// Delete removes one of the user's items and returns it.
func (r *HistoryRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.HistoryItem, error) {
	var item model.HistoryItem
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete history: %w", err)
	}
	return &item, nil
}

// DeleteAll removes the user's history, optionally only items of tipo.
func (r *HistoryRepository) DeleteAll(ctx context.Context, userID primitive.ObjectID, tipo string) (int64, error) {
	query := bson.M{"user_id": userID}
	if tipo != "" {
		query["tipo"] = tipo
	}
	res, err := r.collection.DeleteMany(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.DeletedCount, nil
}

// TrimOldest deletes the oldest items beyond the newest keep.
func (r *HistoryRepository) TrimOldest(ctx context.Context, userID primitive.ObjectID, keep int) (int64, error) {
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return 0, fmt.Errorf("find history overflow: %w", err)
	}
	var stale []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return 0, fmt.Errorf("decode history overflow: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, len(stale))
	for i, s := range stale {
		ids[i] = s.ID
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("trim history: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *HistoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.HistoryItem, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	items := make([]*model.HistoryItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return items, nil
}
