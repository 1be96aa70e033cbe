// Package mongodb implements the credential store and the document-store
// movie adapter on top of the MongoDB sample_mflix database.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"filmshelf/internal/config"
)

// Collection names within the configured database.
const (
	usersCollection  = "users"
	moviesCollection = "movies"
)

// Conn owns the client connection, opened once at process start and held for
// the process lifetime.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Open connects to MongoDB, verifies the connection, and ensures the unique
// email index on the users collection. The index is the authoritative
// duplicate-registration guard; the registration pre-check is UX only.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Conn, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure unique email index: %w", err)
	}

	logger.InfoContext(ctx, "mongodb connection established", slog.String("database", cfg.MongoDB))
	return &Conn{
		client: client,
		db:     db,
		logger: logger.With(slog.String("store", "mongodb")),
	}, nil
}

// Close disconnects the client.
func (c *Conn) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
