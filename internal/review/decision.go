package review

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stickerbot/internal/database"
	"stickerbot/internal/database/models"
	"stickerbot/internal/locales"
	"stickerbot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// ReviewerChecker verifies that the user pressing a decision button belongs to
// the review chat.
type ReviewerChecker interface {
	IsReviewer(ctx context.Context, userID int64) (bool, error)
}

// DecisionProcessor consumes decision callbacks: it persists the review,
// applies ban or notification side effects, retires the review message, and
// advances the queue.
type DecisionProcessor struct {
	bot          telegoapi.BotAPI
	suggestions  database.SuggestionRepository
	senders      database.SenderRepository
	reviews      database.ReviewRepository
	checker      ReviewerChecker
	queue        *Queue
	reviewChatID int64
}

// NewDecisionProcessor creates a decision processor.
func NewDecisionProcessor(
	bot telegoapi.BotAPI,
	suggestions database.SuggestionRepository,
	senders database.SenderRepository,
	reviews database.ReviewRepository,
	checker ReviewerChecker,
	queue *Queue,
	reviewChatID int64,
) *DecisionProcessor {
	if bot == nil {
		log.Fatal("Decision Processor: BotAPI instance is nil")
	}
	if suggestions == nil || senders == nil || reviews == nil {
		log.Fatal("Decision Processor: repository dependency is nil")
	}
	if checker == nil {
		log.Fatal("Decision Processor: reviewer checker is nil")
	}
	if queue == nil {
		log.Fatal("Decision Processor: queue is nil")
	}
	return &DecisionProcessor{
		bot:          bot,
		suggestions:  suggestions,
		senders:      senders,
		reviews:      reviews,
		checker:      checker,
		queue:        queue,
		reviewChatID: reviewChatID,
	}
}

// HandleCallback processes one decision callback query.
// A payload that fails to decode is ignored entirely: no store write, no queue
// advance, no crash.
func (p *DecisionProcessor) HandleCallback(ctx context.Context, query telego.CallbackQuery) error {
	payload, err := DecodePayload(query.Data)
	if err != nil {
		log.Printf("[Decision User:%d] Ignoring undecodable callback: %v", query.From.ID, err)
		return nil
	}

	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())

	isReviewer, err := p.checker.IsReviewer(ctx, query.From.ID)
	if err != nil {
		return fmt.Errorf("failed to verify reviewer %d: %w", query.From.ID, err)
	}
	if !isReviewer {
		log.Printf("[Decision User:%d] Non-reviewer pressed a decision button for suggestion %d", query.From.ID, payload.SuggestionID)
		p.answer(ctx, query.ID, locales.GetMessage(localizer, "MsgReviewersOnly", nil))
		return nil
	}

	if payload.Result == ResultNone {
		// Skip: nothing is persisted, but the queue still moves.
		p.answer(ctx, query.ID, "")
		return p.queue.Advance(ctx)
	}

	review := &models.Review{
		SuggestionID: payload.SuggestionID,
		ReviewerID:   query.From.ID,
		SubmitterID:  payload.SubmitterID,
		ResultCode:   int8(payload.Result),
	}
	err = p.reviews.CreateReview(ctx, review)
	if errors.Is(err, database.ErrDuplicateReview) {
		log.Printf("[Decision Sug:%d] Duplicate decision from reviewer %d, ignoring", payload.SuggestionID, query.From.ID)
		p.repairStatus(ctx, payload.SuggestionID)
		p.answer(ctx, query.ID, "")
		p.queue.markDecided(payload.SuggestionID)
		return p.queue.Advance(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to persist review for suggestion %d: %w", payload.SuggestionID, err)
	}

	if err := p.suggestions.SetSuggestionStatus(ctx, payload.SuggestionID, payload.Result.String()); err != nil {
		return fmt.Errorf("failed to mark suggestion %d decided: %w", payload.SuggestionID, err)
	}

	sender, err := p.senders.GetSender(ctx, payload.SubmitterID)
	if err != nil {
		return fmt.Errorf("failed to resolve submitter %d for suggestion %d: %w", payload.SubmitterID, payload.SuggestionID, err)
	}

	if payload.Result == ResultBanned {
		if err := p.ban(ctx, query.ID, sender, localizer); err != nil {
			return err
		}
	} else if sender.Notify {
		// A submitter that cannot be reached must not stall the queue.
		if err := p.notify(ctx, payload, sender, localizer); err != nil {
			log.Printf("[Decision Sug:%d] Failed to notify submitter %d: %v", payload.SuggestionID, sender.UserID, err)
			sentry.CaptureException(err)
		}
		p.answer(ctx, query.ID, "")
	} else {
		p.answer(ctx, query.ID, "")
	}

	p.retireReviewMessage(ctx, query, payload.Result)

	p.queue.markDecided(payload.SuggestionID)
	return p.queue.Advance(ctx)
}

// repairStatus re-applies the stored result to the suggestion status. A crash
// between persisting a review and writing the status leaves the suggestion
// pending even though it is decided; repairing from the stored result lets the
// queue move past it.
func (p *DecisionProcessor) repairStatus(ctx context.Context, suggestionID int64) {
	existing, err := p.reviews.GetReviewBySuggestion(ctx, suggestionID)
	if err != nil {
		log.Printf("[Decision Sug:%d] Failed to load existing review for status repair: %v", suggestionID, err)
		sentry.CaptureException(err)
		return
	}
	if err := p.suggestions.SetSuggestionStatus(ctx, suggestionID, Result(existing.ResultCode).String()); err != nil {
		log.Printf("[Decision Sug:%d] Failed to repair suggestion status: %v", suggestionID, err)
		sentry.CaptureException(err)
	}
}

// ban marks the submitter banned and acknowledges the reviewer inline.
func (p *DecisionProcessor) ban(ctx context.Context, queryID string, sender *models.Sender, localizer *i18n.Localizer) error {
	log.Printf("[Decision] Banning user %d", sender.UserID)

	sender.IsBanned = true
	if err := p.senders.UpdateSender(ctx, sender); err != nil {
		return fmt.Errorf("failed to ban user %d: %w", sender.UserID, err)
	}

	text := locales.GetMessage(localizer, "MsgUserBanned", map[string]interface{}{
		"Username": sender.DisplayName(),
	})
	p.answer(ctx, queryID, text)
	return nil
}

// notify sends the submitter their file back with the outcome as caption.
func (p *DecisionProcessor) notify(ctx context.Context, payload DecisionPayload, sender *models.Sender, localizer *i18n.Localizer) error {
	suggestion, err := p.suggestions.GetSuggestionByID(ctx, payload.SuggestionID)
	if err != nil {
		return fmt.Errorf("failed to load suggestion %d for notification: %w", payload.SuggestionID, err)
	}

	caption := OutcomeText(localizer, payload.Result)
	_, err = p.bot.SendDocument(ctx, &telego.SendDocumentParams{
		ChatID:   tu.ID(sender.ChatID),
		Document: telego.InputFile{FileID: suggestion.FileID},
		Caption:  caption,
	})
	if err != nil {
		return fmt.Errorf("failed to send decision notification to user %d: %w", sender.UserID, err)
	}
	return nil
}

// retireReviewMessage rewrites the review message caption to the chosen result
// and drops the keyboard so the suggestion cannot be decided twice from the UI.
// Failures here are cosmetic; the decision is already persisted.
func (p *DecisionProcessor) retireReviewMessage(ctx context.Context, query telego.CallbackQuery, result Result) {
	msg, ok := query.Message.(*telego.Message)
	if !ok || msg == nil {
		log.Printf("[Decision] Review message for query %s is inaccessible, cannot retire it", query.ID)
		return
	}
	_, err := p.bot.EditMessageCaption(ctx, &telego.EditMessageCaptionParams{
		ChatID:    tu.ID(p.reviewChatID),
		MessageID: msg.MessageID,
		Caption:   result.Description(),
	})
	if err != nil {
		log.Printf("[Decision] Failed to retire review message %d: %v", msg.MessageID, err)
		sentry.CaptureException(err)
	}
}

// answer is a helper to acknowledge callback queries; failures are only logged.
func (p *DecisionProcessor) answer(ctx context.Context, queryID, text string) {
	err := p.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		log.Printf("Error answering callback query %s: %v", queryID, err)
	}
}

// OutcomeText renders the submitter-facing text for a decided result.
func OutcomeText(localizer *i18n.Localizer, result Result) string {
	if result == ResultApproved {
		return locales.GetMessage(localizer, "MsgApproved", nil)
	}
	return locales.GetMessage(localizer, "MsgDeclined", map[string]interface{}{
		"Reason": result.Description(),
	})
}
