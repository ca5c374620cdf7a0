package auth

import (
	"context"
	"fmt"
	"log"
	"strings"

	"stickerbot/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// ReviewerChecker verifies that a user belongs to the fixed review chat before
// their decision callbacks are honoured.
type ReviewerChecker struct {
	bot          telegoapi.BotAPI
	reviewChatID int64
}

// NewReviewerChecker creates a new ReviewerChecker.
// It requires a non-nil bot instance and a non-zero review chat ID.
func NewReviewerChecker(bot telegoapi.BotAPI, reviewChatID int64) (*ReviewerChecker, error) {
	if bot == nil {
		return nil, fmt.Errorf("telego bot instance cannot be nil")
	}
	if reviewChatID == 0 {
		return nil, fmt.Errorf("review chat ID cannot be zero")
	}
	return &ReviewerChecker{
		bot:          bot,
		reviewChatID: reviewChatID,
	}, nil
}

// IsReviewer checks whether a user is a member, administrator or owner of the
// review chat.
func (rc *ReviewerChecker) IsReviewer(ctx context.Context, userID int64) (bool, error) {
	member, err := rc.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: telego.ChatID{ID: rc.reviewChatID},
		UserID: userID,
	})
	if err != nil {
		// A user not found in the chat is simply not a reviewer.
		// API errors (network, permissions) should be returned.
		if strings.Contains(strings.ToLower(err.Error()), "user not found") {
			return false, nil
		}
		log.Printf("[ReviewerCheck User:%d Chat:%d] Error checking chat member: %v", userID, rc.reviewChatID, err)
		return false, fmt.Errorf("failed to get chat member info: %w", err)
	}

	switch member.MemberStatus() {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator, telego.MemberStatusMember:
		return true, nil
	}
	return false, nil
}
