package database

import (
	"context"
	"fmt"
	"log"

	"stickerbot/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes a connection to MongoDB using the provided
// configuration and verifies it with a ping. It returns the client and the
// application database handle.
func ConnectDB(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoDBURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	var result bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Successfully connected and pinged MongoDB!")

	db := client.Database(cfg.MongoDBDatabase)

	return client, db, nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique index
// on reviews.suggestion_id is what makes duplicate decisions detectable.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(suggestionCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: 1}}},
		{Keys: bson.D{{Key: "submitter_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create suggestion indexes: %w", err)
	}

	_, err = db.Collection(reviewCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "suggestion_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "submitter_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}
