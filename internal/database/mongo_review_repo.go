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

const reviewCollectionName = "reviews"

// MongoReviewRepository implements ReviewRepository for MongoDB.
type MongoReviewRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoReviewRepository creates a new MongoDB review repository.
func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{
		db:         db,
		collection: db.Collection(reviewCollectionName),
	}
}

// CreateReview persists a review and assigns its sequential ID. The unique
// index on suggestion_id turns a second decision for the same suggestion into
// ErrDuplicateReview.
func (r *MongoReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	id, err := nextSequence(ctx, r.db, "reviews")
	if err != nil {
		return err
	}
	review.ID = id
	review.SubmittedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to insert review for suggestion %d: %w", review.SuggestionID, err)
	}
	return nil
}

// GetReviewBySuggestion retrieves the review for a suggestion, if any.
func (r *MongoReviewRepository) GetReviewBySuggestion(ctx context.Context, suggestionID int64) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOne(ctx, bson.M{"suggestion_id": suggestionID}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review for suggestion %d: %w", suggestionID, err)
	}
	return &review, nil
}

// GetLatestReviewBySubmitter returns the most recent review across all of the
// submitter's suggestions.
func (r *MongoReviewRepository) GetLatestReviewBySubmitter(ctx context.Context, submitterID int64) (*models.Review, error) {
	filter := bson.M{"submitter_id": submitterID}
	opts := options.FindOne().SetSort(bson.D{{Key: "submitted_at", Value: -1}})

	var review models.Review
	err := r.collection.FindOne(ctx, filter, opts).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find latest review for user %d: %w", submitterID, err)
	}
	return &review, nil
}
