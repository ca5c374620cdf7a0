package database

import (
	"context"
	"fmt"
	"time"

	"stickerbot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const senderCollectionName = "senders"

// MongoSenderRepository implements SenderRepository for MongoDB.
type MongoSenderRepository struct {
	collection *mongo.Collection
}

// NewMongoSenderRepository creates a new MongoDB sender repository.
func NewMongoSenderRepository(db *mongo.Database) *MongoSenderRepository {
	return &MongoSenderRepository{
		collection: db.Collection(senderCollectionName),
	}
}

// GetSender retrieves a sender by Telegram user ID.
func (r *MongoSenderRepository) GetSender(ctx context.Context, userID int64) (*models.Sender, error) {
	var sender models.Sender
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&sender)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSenderNotFound
		}
		return nil, fmt.Errorf("failed to find sender %d: %w", userID, err)
	}
	return &sender, nil
}

// CreateSender inserts a new sender record on first contact.
func (r *MongoSenderRepository) CreateSender(ctx context.Context, sender *models.Sender) error {
	sender.FirstSeen = time.Now()
	if _, err := r.collection.InsertOne(ctx, sender); err != nil {
		return fmt.Errorf("failed to insert sender %d: %w", sender.UserID, err)
	}
	return nil
}

// UpdateSender replaces the stored sender record.
func (r *MongoSenderRepository) UpdateSender(ctx context.Context, sender *models.Sender) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": sender.UserID}, sender)
	if err != nil {
		return fmt.Errorf("failed to update sender %d: %w", sender.UserID, err)
	}
	if result.MatchedCount == 0 {
		return ErrSenderNotFound
	}
	return nil
}
