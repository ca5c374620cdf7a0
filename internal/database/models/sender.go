package models

import "time"

// Sender is a chat user, either a submitter or a reviewer. Created on first
// contact and never deleted.
type Sender struct {
	UserID    int64     `bson:"_id"`
	FirstName string    `bson:"first_name,omitempty"`
	LastName  string    `bson:"last_name,omitempty"`
	Username  string    `bson:"username,omitempty"`
	ChatID    int64     `bson:"chat_id"`
	IsBanned  bool      `bson:"is_banned"`
	Notify    bool      `bson:"notify"`
	FirstSeen time.Time `bson:"first_seen"`
}

// DisplayName returns the best available handle for review captions.
func (s *Sender) DisplayName() string {
	if s.Username != "" {
		return s.Username
	}
	if s.FirstName != "" {
		return s.FirstName
	}
	return "anonymous"
}
