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

// FileRepository stores uploaded file metadata in MongoDB.
type FileRepository struct {
	collection *mongo.Collection
}

// NewFileRepository creates a new file repository.
func NewFileRepository(db *MongoDB) *FileRepository {
	return &FileRepository{collection: db.Files}
}

// Create inserts a file record.
func (r *FileRepository) Create(ctx context.Context, file *model.FileRecord) error {
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, file); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// FindByID finds a file record by ID.
func (r *FileRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.FileRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByFilename finds a file record by its stored name.
func (r *FileRepository) FindByFilename(ctx context.Context, filename string) (*model.FileRecord, error) {
	return r.findOne(ctx, bson.M{"filename": filename})
}

// ListByUser returns the files uploaded by a user, newest first.
func (r *FileRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find files: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	files := make([]*model.FileRecord, 0)
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	return files, nil
}

// Delete removes a file record.
func (r *FileRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FileRepository) findOne(ctx context.Context, filter bson.M) (*model.FileRecord, error) {
	var file model.FileRecord
	err := r.collection.FindOne(ctx, filter).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return &file, nil
}
