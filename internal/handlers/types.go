package handlers

import (
	"context"
	"fmt"
	"log"

	"stickerbot/internal/database"
	"stickerbot/internal/database/models"
	"stickerbot/internal/locales"
	"stickerbot/internal/review"
	"stickerbot/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// Command maps a command word to its description key and handler function.
// ReviewerOnly commands are dispatched but never registered with Telegram's
// public command list.
type Command struct {
	Command      string
	Description  string
	Handler      func(context.Context, telego.Message, *models.Sender) error
	ReviewerOnly bool
}

// MessageHandler handles submitter-facing traffic: commands, new submissions
// and the first-contact/ban gate. Reviewer callbacks are handled by the
// review package.
type MessageHandler struct {
	bot           telegoapi.BotAPI
	senders       database.SenderRepository
	suggestions   database.SuggestionRepository
	reviews       database.ReviewRepository
	submissions   *review.SubmissionHandler
	checker       review.ReviewerChecker
	queue         *review.Queue
	guidelinesURL string

	commands []Command
}

// NewMessageHandler creates and initializes a new MessageHandler instance.
func NewMessageHandler(
	bot telegoapi.BotAPI,
	senders database.SenderRepository,
	suggestions database.SuggestionRepository,
	reviews database.ReviewRepository,
	submissions *review.SubmissionHandler,
	checker review.ReviewerChecker,
	queue *review.Queue,
	guidelinesURL string,
) *MessageHandler {
	if bot == nil {
		log.Fatal("MessageHandler: BotAPI instance is nil")
	}
	if senders == nil || suggestions == nil || reviews == nil {
		log.Fatal("MessageHandler: repository dependency is nil")
	}
	if submissions == nil {
		log.Fatal("MessageHandler: submission handler is nil")
	}
	if checker == nil {
		log.Fatal("MessageHandler: reviewer checker is nil")
	}
	if queue == nil {
		log.Fatal("MessageHandler: review queue is nil")
	}

	h := &MessageHandler{
		bot:           bot,
		senders:       senders,
		suggestions:   suggestions,
		reviews:       reviews,
		submissions:   submissions,
		checker:       checker,
		queue:         queue,
		guidelinesURL: guidelinesURL,
	}
	h.commands = []Command{
		{Command: "start", Description: "CmdStartDesc", Handler: h.HandleStart},
		{Command: "status", Description: "CmdStatusDesc", Handler: h.HandleStatus},
		{Command: "subscribe", Description: "CmdSubscribeDesc", Handler: h.HandleSubscribe},
		{Command: "unsubscribe", Description: "CmdUnsubscribeDesc", Handler: h.HandleUnsubscribe},
		{Command: "guidelines", Description: "CmdGuidelinesDesc", Handler: h.HandleGuidelines},
		{Command: "review", Description: "CmdReviewDesc", Handler: h.HandleReview, ReviewerOnly: true},
	}
	return h
}

// GetCommandHandler retrieves the handler for a command word (e.g., "start").
// It returns nil if the command is not known.
func (h *MessageHandler) GetCommandHandler(command string) func(context.Context, telego.Message, *models.Sender) error {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}

// SetupCommands registers the bot's command list with Telegram, with
// descriptions localized to the default language.
func (h *MessageHandler) SetupCommands(ctx context.Context) error {
	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())

	commands := make([]telego.BotCommand, 0, len(h.commands))
	for _, cmd := range h.commands {
		if cmd.ReviewerOnly {
			continue
		}
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(localizer, cmd.Description, nil),
		})
	}

	err := h.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands})
	if err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	log.Printf("Successfully set %d bot commands.", len(commands))
	return nil
}
