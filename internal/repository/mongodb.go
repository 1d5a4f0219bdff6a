package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/fipe-service/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollectionUsers     = "users"
	CollectionTokens    = "tokens"
	CollectionFavorites = "favorites"
	CollectionHistory   = "history"
	CollectionFiles     = "files"
	CollectionLogs      = "logs"
)

// MongoConfig holds MongoDB connection pool configuration.
type MongoConfig struct {
	// MaxPoolSize is the maximum number of connections in the pool.
	MaxPoolSize uint64
	// MinPoolSize is the minimum number of connections to keep in the pool.
	MinPoolSize uint64
	// MaxConnIdleTime is how long a connection can remain idle before being closed.
	MaxConnIdleTime time.Duration
	// ConnectTimeout is the timeout for establishing a connection.
	ConnectTimeout time.Duration
	// ServerSelectionTimeout is how long to wait for server selection.
	ServerSelectionTimeout time.Duration
	// SocketTimeout is the timeout for socket read/write operations.
	SocketTimeout time.Duration
	// EnableCompression enables wire protocol compression.
	EnableCompression bool
}

// DefaultMongoConfig returns production-optimized MongoDB configuration.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            5,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		EnableCompression:      true,
	}
}

// MongoDB provides MongoDB client and collection access.
type MongoDB struct {
	Client    *mongo.Client
	Database  *mongo.Database
	Users     *mongo.Collection
	Tokens    *mongo.Collection
	Favorites *mongo.Collection
	History   *mongo.Collection
	Files     *mongo.Collection
	Logs      *mongo.Collection
}

// NewMongoDB creates a new MongoDB connection with default configuration.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, pings and ensures the indexes of every collection.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)

	if cfg.EnableCompression {
		clientOptions.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:    client,
		Database:  db,
		Users:     db.Collection(CollectionUsers),
		Tokens:    db.Collection(CollectionTokens),
		Favorites: db.Collection(CollectionFavorites),
		History:   db.Collection(CollectionHistory),
		Files:     db.Collection(CollectionFiles),
		Logs:      db.Collection(CollectionLogs),
	}

	if err := m.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// createIndexes ensures the indexes the repositories rely on. Unique indexes
// must succeed; secondary indexes are best effort.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	required := []struct {
		coll  *mongo.Collection
		index mongo.IndexModel
	}{
		{m.Users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{m.Tokens, mongo.IndexModel{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{m.Favorites, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "codigo_fipe", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{m.Files, mongo.IndexModel{Keys: bson.D{{Key: "filename", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
	for _, r := range required {
		if _, err := r.coll.Indexes().CreateOne(ctx, r.index); err != nil {
			return fmt.Errorf("create index on %s: %w", r.coll.Name(), err)
		}
	}

	optional := []struct {
		coll  *mongo.Collection
		index mongo.IndexModel
	}{
		{m.Tokens, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}}}},
		// Expired tokens are removed by the server.
		{m.Tokens, mongo.IndexModel{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)}},
		{m.Favorites, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		{m.History, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "consultado_em", Value: -1}}}},
		{m.History, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "tipo", Value: 1}}}},
		{m.Files, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		{m.Logs, mongo.IndexModel{Keys: bson.D{{Key: "request_id", Value: 1}}}},
		{m.Logs, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "action_type", Value: 1}}}},
	}
	log := logger.Component("mongodb")
	for _, o := range optional {
		if _, err := o.coll.Indexes().CreateOne(ctx, o.index); err != nil {
			log.Warn().Err(err).Str("collection", o.coll.Name()).Msg("Failed to create index")
		}
	}
	return nil
}

// SetLogsTTL replaces the TTL index of the logs collection.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttlDays int) error {
	_, _ = m.Logs.Indexes().DropOne(ctx, "timestamp_1")

	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttlDays * 24 * 60 * 60)),
	}
	_, err := m.Logs.Indexes().CreateOne(ctx, ttlIndex)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Name == "IndexOptionsConflict" || cmdErr.Name == "IndexKeySpecsConflict") {
		return nil
	}
	return err
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck verifies the MongoDB connection is healthy.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}

// isDuplicateKey reports whether err is a unique index violation.
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
