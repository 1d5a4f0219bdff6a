package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogsRepository persists request logs and audit records.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository creates a new logs repository.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs}
}

func prepareLogEntry(entry *model.LogEntry) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
}

// Create inserts a log entry.
func (r *LogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	prepareLogEntry(entry)
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// CreateMany inserts log entries in bulk.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, len(entries))
	for i, entry := range entries {
		prepareLogEntry(entry)
		docs[i] = entry
	}
	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert logs: %w", err)
	}
	return nil
}

// Query returns matching entries, newest first.
func (r *LogsRepository) Query(ctx context.Context, q model.LogQuery) ([]*model.LogEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}
	if q.Skip > 0 {
		findOptions.SetSkip(int64(q.Skip))
	}

	cursor, err := r.collection.Find(ctx, logFilter(q), findOptions)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	entries := make([]*model.LogEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	return entries, nil
}

// Count returns the number of matching entries.
func (r *LogsRepository) Count(ctx context.Context, q model.LogQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(q))
}

func logFilter(q model.LogQuery) bson.M {
	filter := bson.M{}
	if q.RequestID != "" {
		filter["request_id"] = q.RequestID
	}
	if q.Level != "" {
		filter["level"] = q.Level
	}
	if q.UserID != "" {
		filter["user_id"] = q.UserID
	}
	if q.ActionType != "" {
		filter["action_type"] = q.ActionType
	}
	if q.Since != nil || q.Until != nil {
		ts := bson.M{}
		if q.Since != nil {
			ts["$gte"] = *q.Since
		}
		if q.Until != nil {
			ts["$lte"] = *q.Until
		}
		filter["timestamp"] = ts
	}
	return filter
}
