package review

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"stickerbot/internal/database"
	"stickerbot/internal/database/models"
	"stickerbot/internal/locales"
	"stickerbot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// SubmissionHandler ingests newly submitted files into the review queue.
type SubmissionHandler struct {
	bot         telegoapi.BotAPI
	suggestions database.SuggestionRepository
	queue       *Queue
}

// NewSubmissionHandler creates a submission handler.
func NewSubmissionHandler(bot telegoapi.BotAPI, suggestions database.SuggestionRepository, queue *Queue) *SubmissionHandler {
	if bot == nil {
		log.Fatal("Submission Handler: BotAPI instance is nil")
	}
	if suggestions == nil {
		log.Fatal("Submission Handler: Suggestion repository is nil")
	}
	if queue == nil {
		log.Fatal("Submission Handler: Queue is nil")
	}
	return &SubmissionHandler{bot: bot, suggestions: suggestions, queue: queue}
}

// acceptedExtension reports whether the submitted file name carries an image
// extension the sticker pipeline accepts.
func acceptedExtension(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// HandleNewSuggestion persists a submitted document as a pending suggestion,
// thanks the submitter, and renders it for review when nothing else is ahead
// of it in the queue. Documents that are not image files are ignored; the
// command layer already tells the user what input is expected.
func (h *SubmissionHandler) HandleNewSuggestion(ctx context.Context, sender *models.Sender, document *telego.Document) error {
	if document == nil {
		return nil
	}
	if !acceptedExtension(document.FileName) {
		log.Printf("[Submission User:%d] Ignoring file %q with unsupported extension", sender.UserID, document.FileName)
		return nil
	}

	suggestion := &models.Suggestion{
		FileID:      document.FileID,
		SubmitterID: sender.UserID,
	}
	if err := h.suggestions.CreateSuggestion(ctx, suggestion); err != nil {
		return fmt.Errorf("failed to save suggestion from user %d: %w", sender.UserID, err)
	}
	log.Printf("[Submission User:%d] Created suggestion %d", sender.UserID, suggestion.ID)

	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
	text := locales.GetMessage(localizer, "MsgThankYou", map[string]interface{}{
		"ID": suggestion.ID,
	})
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(sender.ChatID), text)); err != nil {
		return fmt.Errorf("failed to acknowledge suggestion %d: %w", suggestion.ID, err)
	}

	oldest, err := h.suggestions.GetOldestUndecidedSuggestion(ctx)
	if err != nil {
		return fmt.Errorf("failed to check review queue after suggestion %d: %w", suggestion.ID, err)
	}
	if oldest.ID == suggestion.ID {
		return h.queue.Advance(ctx)
	}
	return nil
}
