package models

import "time"

// Review is the persisted outcome of a moderation decision. At most one exists
// per suggestion, enforced by a unique index on suggestion_id.
type Review struct {
	ID           int64 `bson:"_id"`
	SuggestionID int64 `bson:"suggestion_id"`
	ReviewerID   int64 `bson:"reviewer_id"`
	// SubmitterID is denormalized from the suggestion so "latest review for
	// this submitter" is a single indexed query.
	SubmitterID int64     `bson:"submitter_id"`
	ResultCode  int8      `bson:"result_code"`
	SubmittedAt time.Time `bson:"submitted_at"`
}
