package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"stickerbot/internal/database"
	"stickerbot/internal/locales"
	"stickerbot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Queue owns the "fetch oldest undecided and render" step. All advances go
// through a single mutex so concurrent triggers (a new submission racing a
// completed decision) cannot render the same suggestion twice or skip one.
type Queue struct {
	bot          telegoapi.BotAPI
	suggestions  database.SuggestionRepository
	senders      database.SenderRepository
	reviewChatID int64

	mu sync.Mutex
	// outstandingID is the suggestion currently presented to reviewers, 0 if
	// none. At most one suggestion is ever outstanding.
	outstandingID int64
}

// NewQueue creates a review queue bound to the review chat.
func NewQueue(
	bot telegoapi.BotAPI,
	suggestions database.SuggestionRepository,
	senders database.SenderRepository,
	reviewChatID int64,
) *Queue {
	if bot == nil {
		log.Fatal("Review Queue: BotAPI instance is nil")
	}
	if suggestions == nil {
		log.Fatal("Review Queue: Suggestion repository is nil")
	}
	if senders == nil {
		log.Fatal("Review Queue: Sender repository is nil")
	}
	if reviewChatID == 0 {
		log.Fatal("Review Queue: Review chat ID is not set")
	}

	return &Queue{
		bot:          bot,
		suggestions:  suggestions,
		senders:      senders,
		reviewChatID: reviewChatID,
	}
}

// Advance renders the oldest undecided suggestion to the review chat, if any.
// Rendering the suggestion that is already outstanding is a no-op, so callers
// may invoke Advance freely after ingesting or deciding.
func (q *Queue) Advance(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.render(ctx)
}

// Rerender sends the current oldest undecided suggestion to the review chat
// even if it was already presented, for when the original review message has
// scrolled away or been lost. Deciding either copy works; the duplicate-review
// guard makes the second decision a no-op.
func (q *Queue) Rerender(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.outstandingID = 0
	return q.render(ctx)
}

func (q *Queue) render(ctx context.Context) error {
	suggestion, err := q.suggestions.GetOldestUndecidedSuggestion(ctx)
	if errors.Is(err, database.ErrSuggestionNotFound) {
		q.outstandingID = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch next suggestion for review: %w", err)
	}

	if q.outstandingID == suggestion.ID {
		log.Printf("[Queue] Suggestion %d already presented, skipping render", suggestion.ID)
		return nil
	}

	sender, err := q.senders.GetSender(ctx, suggestion.SubmitterID)
	if err != nil {
		return fmt.Errorf("failed to resolve submitter %d of suggestion %d: %w", suggestion.SubmitterID, suggestion.ID, err)
	}

	markup, err := buildDecisionKeyboard(suggestion.ID, suggestion.SubmitterID)
	if err != nil {
		return err
	}

	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
	caption := locales.GetMessage(localizer, "MsgReviewFrom", map[string]interface{}{
		"Username": sender.DisplayName(),
	})

	_, err = q.bot.SendDocument(ctx, &telego.SendDocumentParams{
		ChatID:      tu.ID(q.reviewChatID),
		Document:    telego.InputFile{FileID: suggestion.FileID},
		Caption:     caption,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("failed to send suggestion %d for review: %w", suggestion.ID, err)
	}

	q.outstandingID = suggestion.ID
	log.Printf("[Queue] Sent suggestion %d for review", suggestion.ID)
	return nil
}

// markDecided clears the outstanding mark for a suggestion that just received
// a decision, so the next Advance renders the following item.
func (q *Queue) markDecided(suggestionID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.outstandingID == suggestionID {
		q.outstandingID = 0
	}
}

// buildDecisionKeyboard creates one inline button per possible decision, each
// carrying the encoded payload for this suggestion.
func buildDecisionKeyboard(suggestionID, submitterID int64) (*telego.InlineKeyboardMarkup, error) {
	values := DecisionValues()
	rows := make([][]telego.InlineKeyboardButton, 0, len(values))
	for _, result := range values {
		data, err := EncodePayload(DecisionPayload{
			SuggestionID: suggestionID,
			SubmitterID:  submitterID,
			Result:       result,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode decision payload for suggestion %d: %w", suggestionID, err)
		}
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(result.Description()).WithCallbackData(data),
		))
	}
	return &telego.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}
