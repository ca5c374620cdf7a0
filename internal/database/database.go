package database

import (
	"context"
	"errors"

	"stickerbot/internal/database/models"
)

// Sentinel errors returned by repository implementations. Callers use these to
// tell "absent" and "duplicate" apart from real store failures.
var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrSenderNotFound     = errors.New("sender not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrDuplicateReview    = errors.New("review already exists for suggestion")
)

// SuggestionRepository defines the store operations for suggestions.
type SuggestionRepository interface {
	// CreateSuggestion persists a new pending suggestion and assigns its ID.
	CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	// GetSuggestionByID returns ErrSuggestionNotFound if no suggestion matches.
	GetSuggestionByID(ctx context.Context, id int64) (*models.Suggestion, error)
	// GetOldestUndecidedSuggestion returns the pending suggestion with the
	// earliest submission time, or ErrSuggestionNotFound if the queue is empty.
	GetOldestUndecidedSuggestion(ctx context.Context) (*models.Suggestion, error)
	// GetLatestSuggestionBySubmitter returns the submitter's most recent
	// suggestion regardless of status, or ErrSuggestionNotFound.
	GetLatestSuggestionBySubmitter(ctx context.Context, submitterID int64) (*models.Suggestion, error)
	// SetSuggestionStatus records the decision tag on the suggestion.
	SetSuggestionStatus(ctx context.Context, id int64, status string) error
}

// SenderRepository defines the store operations for senders.
type SenderRepository interface {
	// GetSender returns ErrSenderNotFound if the user has never been seen.
	GetSender(ctx context.Context, userID int64) (*models.Sender, error)
	CreateSender(ctx context.Context, sender *models.Sender) error
	UpdateSender(ctx context.Context, sender *models.Sender) error
}

// ReviewRepository defines the store operations for reviews.
type ReviewRepository interface {
	// CreateReview persists a review and assigns its ID. It returns
	// ErrDuplicateReview if the suggestion already has one.
	CreateReview(ctx context.Context, review *models.Review) error
	// GetReviewBySuggestion returns ErrReviewNotFound if the suggestion has
	// not been decided yet.
	GetReviewBySuggestion(ctx context.Context, suggestionID int64) (*models.Review, error)
	// GetLatestReviewBySubmitter returns the most recent review across all of
	// the submitter's suggestions, or ErrReviewNotFound.
	GetLatestReviewBySubmitter(ctx context.Context, submitterID int64) (*models.Review, error)
}
