package models

import "time"

// Suggestion statuses. A suggestion stays "pending" until a reviewer decides
// it; the decision processor then stores the result tag.
const (
	SuggestionStatusPending = "pending"
)

// Suggestion represents a single submitted image. Immutable after creation
// except for the status field, which the decision processor sets exactly once.
type Suggestion struct {
	ID          int64     `bson:"_id"`
	FileID      string    `bson:"file_id"`
	SubmitterID int64     `bson:"submitter_id"`
	Status      string    `bson:"status"`
	SubmittedAt time.Time `bson:"submitted_at"`
}
