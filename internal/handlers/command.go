package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"stickerbot/internal/database"
	"stickerbot/internal/database/models"
	"stickerbot/internal/locales"
	"stickerbot/internal/review"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// HandleCommand parses "/command [argument]" and dispatches to the matching
// handler. Unknown commands get the generic invalid-command reply.
func (h *MessageHandler) HandleCommand(ctx context.Context, message telego.Message, sender *models.Sender) error {
	fields := strings.Fields(message.Text)
	if len(fields) == 0 {
		return nil
	}
	command := strings.TrimPrefix(fields[0], "/")
	// Commands in group chats arrive as /command@botname.
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}

	handler := h.GetCommandHandler(command)
	if handler == nil {
		log.Printf("[Cmd:%s User:%d] Unknown command", command, sender.UserID)
		return h.reply(ctx, sender, "MsgWrongCommand", nil)
	}
	return handler(ctx, message, sender)
}

// HandleStart greets the user and points at the guidelines.
func (h *MessageHandler) HandleStart(ctx context.Context, message telego.Message, sender *models.Sender) error {
	log.Printf("[Cmd:start User:%d] Greeting user", sender.UserID)
	if err := h.reply(ctx, sender, "MsgHello", nil); err != nil {
		return err
	}
	return h.reply(ctx, sender, "MsgBeforeSubmitting", map[string]interface{}{
		"Guidelines": h.guidelinesURL,
	})
}

// HandleGuidelines sends the guidelines reference.
func (h *MessageHandler) HandleGuidelines(ctx context.Context, message telego.Message, sender *models.Sender) error {
	log.Printf("[Cmd:guidelines User:%d] Sending guidelines", sender.UserID)
	return h.reply(ctx, sender, "MsgGuidelines", map[string]interface{}{
		"Guidelines": h.guidelinesURL,
	})
}

// HandleStatus reports the outcome of a specific suggestion when an ID
// argument is given, or of the caller's latest suggestion otherwise.
func (h *MessageHandler) HandleStatus(ctx context.Context, message telego.Message, sender *models.Sender) error {
	fields := strings.Fields(message.Text)
	if len(fields) > 1 {
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || id <= 0 {
			return h.reply(ctx, sender, "MsgInvalidID", map[string]interface{}{
				"Arg": fields[1],
			})
		}
		return h.statusByID(ctx, sender, id)
	}
	return h.statusLatest(ctx, sender)
}

// statusByID answers /status N. The ownership check must never leak another
// submitter's outcome, so a foreign suggestion gets the same terse reply
// whatever its state.
func (h *MessageHandler) statusByID(ctx context.Context, sender *models.Sender, id int64) error {
	log.Printf("[Cmd:status User:%d] Looking up suggestion %d", sender.UserID, id)

	suggestion, err := h.suggestions.GetSuggestionByID(ctx, id)
	if errors.Is(err, database.ErrSuggestionNotFound) {
		return h.reply(ctx, sender, "MsgSuggestionNotFound", map[string]interface{}{
			"ID": id,
		})
	}
	if err != nil {
		return fmt.Errorf("status lookup for suggestion %d: %w", id, err)
	}

	if suggestion.SubmitterID != sender.UserID {
		return h.reply(ctx, sender, "MsgStatusUnavailable", nil)
	}

	rev, err := h.reviews.GetReviewBySuggestion(ctx, id)
	if errors.Is(err, database.ErrReviewNotFound) {
		return h.reply(ctx, sender, "MsgNotYetReviewed", nil)
	}
	if err != nil {
		return fmt.Errorf("review lookup for suggestion %d: %w", id, err)
	}

	return h.sendOutcome(ctx, sender, review.Result(rev.ResultCode))
}

// statusLatest answers a bare /status. An extra suggestion lookup tells
// "never submitted anything" apart from "latest submission still pending".
func (h *MessageHandler) statusLatest(ctx context.Context, sender *models.Sender) error {
	log.Printf("[Cmd:status User:%d] Looking up latest review", sender.UserID)

	rev, err := h.reviews.GetLatestReviewBySubmitter(ctx, sender.UserID)
	if err == nil {
		return h.sendOutcome(ctx, sender, review.Result(rev.ResultCode))
	}
	if !errors.Is(err, database.ErrReviewNotFound) {
		return fmt.Errorf("latest review lookup for user %d: %w", sender.UserID, err)
	}

	_, err = h.suggestions.GetLatestSuggestionBySubmitter(ctx, sender.UserID)
	if errors.Is(err, database.ErrSuggestionNotFound) {
		return h.reply(ctx, sender, "MsgNoSubmissions", nil)
	}
	if err != nil {
		return fmt.Errorf("latest suggestion lookup for user %d: %w", sender.UserID, err)
	}
	return h.reply(ctx, sender, "MsgLatestNotYetReviewed", nil)
}

// HandleReview re-sends the current pending suggestion to the review chat.
// Non-reviewers get the generic invalid-command reply, same as for a command
// that does not exist.
func (h *MessageHandler) HandleReview(ctx context.Context, message telego.Message, sender *models.Sender) error {
	isReviewer, err := h.checker.IsReviewer(ctx, sender.UserID)
	if err != nil {
		return fmt.Errorf("failed to verify reviewer %d: %w", sender.UserID, err)
	}
	if !isReviewer {
		return h.reply(ctx, sender, "MsgWrongCommand", nil)
	}

	log.Printf("[Cmd:review User:%d] Re-rendering current suggestion", sender.UserID)
	return h.queue.Rerender(ctx)
}

// HandleSubscribe turns decision notifications on.
func (h *MessageHandler) HandleSubscribe(ctx context.Context, message telego.Message, sender *models.Sender) error {
	return h.setNotify(ctx, sender, true)
}

// HandleUnsubscribe turns decision notifications off.
func (h *MessageHandler) HandleUnsubscribe(ctx context.Context, message telego.Message, sender *models.Sender) error {
	return h.setNotify(ctx, sender, false)
}

func (h *MessageHandler) setNotify(ctx context.Context, sender *models.Sender, notify bool) error {
	log.Printf("[Cmd:subscribe User:%d] Setting notify to %t", sender.UserID, notify)

	if sender.Notify == notify {
		if notify {
			return h.reply(ctx, sender, "MsgAlreadySubscribed", nil)
		}
		return h.reply(ctx, sender, "MsgAlreadyUnsubscribed", nil)
	}

	sender.Notify = notify
	if err := h.senders.UpdateSender(ctx, sender); err != nil {
		return fmt.Errorf("failed to update subscription of user %d: %w", sender.UserID, err)
	}

	if notify {
		return h.reply(ctx, sender, "MsgSubscribed", nil)
	}
	return h.reply(ctx, sender, "MsgUnsubscribed", nil)
}

func (h *MessageHandler) sendOutcome(ctx context.Context, sender *models.Sender, result review.Result) error {
	text := review.OutcomeText(h.localizer(), result)
	_, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(sender.ChatID), text))
	return err
}

func (h *MessageHandler) reply(ctx context.Context, sender *models.Sender, msgID string, data map[string]interface{}) error {
	text := locales.GetMessage(h.localizer(), msgID, data)
	_, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(sender.ChatID), text))
	return err
}

func (h *MessageHandler) localizer() *i18n.Localizer {
	return locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
}
