package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stickerbot/internal/database"
	"stickerbot/internal/database/models"
	"stickerbot/internal/locales"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// EnsureWelcome resolves the Sender for an inbound update, creating the record
// on first contact. It returns welcome=false for banned users, who get told so
// and whose update must not be processed any further.
func (h *MessageHandler) EnsureWelcome(ctx context.Context, user *telego.User, chatID int64) (sender *models.Sender, welcome bool, err error) {
	if user == nil {
		return nil, false, errors.New("update has no originating user")
	}

	sender, err = h.senders.GetSender(ctx, user.ID)
	if errors.Is(err, database.ErrSenderNotFound) {
		sender = &models.Sender{
			UserID:    user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Username:  user.Username,
			ChatID:    chatID,
		}
		log.Printf("[Welcome] Adding new sender %d", user.ID)
		if err := h.senders.CreateSender(ctx, sender); err != nil {
			return nil, false, fmt.Errorf("failed to create sender %d: %w", user.ID, err)
		}
		return sender, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve sender %d: %w", user.ID, err)
	}

	if sender.IsBanned {
		localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
		text := locales.GetMessage(localizer, "MsgBanned", nil)
		if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(sender.ChatID), text)); err != nil {
			log.Printf("[Welcome] Failed to inform banned user %d: %v", user.ID, err)
		}
		return sender, false, nil
	}

	return sender, true, nil
}

// HandleDocument routes a submitted file into the review queue.
func (h *MessageHandler) HandleDocument(ctx context.Context, message telego.Message, sender *models.Sender) error {
	return h.submissions.HandleNewSuggestion(ctx, sender, message.Document)
}

// HandleUnsupported tells the user what kind of input the bot understands.
func (h *MessageHandler) HandleUnsupported(ctx context.Context, message telego.Message, sender *models.Sender) error {
	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
	text := locales.GetMessage(localizer, "MsgWrongUpdateType", nil)
	_, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(sender.ChatID), text))
	return err
}
