package database

import (
	"context"
	"fmt"
	"time"

	"stickerbot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const suggestionCollectionName = "suggestions"

// MongoSuggestionRepository implements SuggestionRepository for MongoDB.
type MongoSuggestionRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoSuggestionRepository creates a new MongoDB suggestion repository.
func NewMongoSuggestionRepository(db *mongo.Database) *MongoSuggestionRepository {
	return &MongoSuggestionRepository{
		db:         db,
		collection: db.Collection(suggestionCollectionName),
	}
}

// CreateSuggestion adds a new pending suggestion and assigns its sequential ID.
func (r *MongoSuggestionRepository) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	id, err := nextSequence(ctx, r.db, "suggestions")
	if err != nil {
		return err
	}
	suggestion.ID = id
	suggestion.Status = models.SuggestionStatusPending
	suggestion.SubmittedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, suggestion); err != nil {
		return fmt.Errorf("failed to insert suggestion: %w", err)
	}
	return nil
}

// GetSuggestionByID retrieves a single suggestion by its ID.
func (r *MongoSuggestionRepository) GetSuggestionByID(ctx context.Context, id int64) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&suggestion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("failed to find suggestion %d: %w", id, err)
	}
	return &suggestion, nil
}

// GetOldestUndecidedSuggestion returns the pending suggestion submitted
// earliest, or ErrSuggestionNotFound when the queue is empty.
func (r *MongoSuggestionRepository) GetOldestUndecidedSuggestion(ctx context.Context) (*models.Suggestion, error) {
	filter := bson.M{"status": models.SuggestionStatusPending}
	opts := options.FindOne().SetSort(bson.D{{Key: "submitted_at", Value: 1}})

	var suggestion models.Suggestion
	err := r.collection.FindOne(ctx, filter, opts).Decode(&suggestion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("failed to find oldest undecided suggestion: %w", err)
	}
	return &suggestion, nil
}

// GetLatestSuggestionBySubmitter returns the submitter's most recent
// suggestion regardless of status.
func (r *MongoSuggestionRepository) GetLatestSuggestionBySubmitter(ctx context.Context, submitterID int64) (*models.Suggestion, error) {
	filter := bson.M{"submitter_id": submitterID}
	opts := options.FindOne().SetSort(bson.D{{Key: "submitted_at", Value: -1}})

	var suggestion models.Suggestion
	err := r.collection.FindOne(ctx, filter, opts).Decode(&suggestion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("failed to find latest suggestion for user %d: %w", submitterID, err)
	}
	return &suggestion, nil
}

// SetSuggestionStatus records the decision tag on a suggestion.
func (r *MongoSuggestionRepository) SetSuggestionStatus(ctx context.Context, id int64, status string) error {
	update := bson.M{"$set": bson.M{"status": status}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update status of suggestion %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrSuggestionNotFound
	}
	return nil
}
