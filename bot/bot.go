package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"stickerbot/internal/handlers"
	"stickerbot/internal/review"
	"stickerbot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"go.uber.org/ratelimit"
)

// Bot runs the update loop: it classifies each inbound update as a reviewer
// decision, a new submission or a command, gates it through the sender check,
// and dispatches it on its own goroutine.
type Bot struct {
	bot         telegoapi.BotAPI
	updatesChan <-chan telego.Update
	handler     *handlers.MessageHandler
	decisions   *review.DecisionProcessor
	debug       bool
	ratelimiter ratelimit.Limiter
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot         telegoapi.BotAPI
	UpdatesChan <-chan telego.Update
	Handler     *handlers.MessageHandler
	Decisions   *review.DecisionProcessor
	Debug       bool
}

// New creates a new Bot instance from its dependencies.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}
	if deps.Decisions == nil {
		return nil, fmt.Errorf("decision processor cannot be nil")
	}

	return &Bot{
		bot:         deps.Bot,
		updatesChan: deps.UpdatesChan,
		handler:     deps.Handler,
		decisions:   deps.Decisions,
		debug:       deps.Debug,
		ratelimiter: ratelimit.New(20),
	}, nil
}

// processUpdate routes one incoming update to the appropriate handler.
// Collaborator failures are captured for the operator and the update is
// dropped; there is no automatic retry.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(processingCtx, *update.CallbackQuery)

	case update.Message != nil:
		message := *update.Message
		if message.From == nil {
			log.Printf("Ignoring message %d from chat %d without sender", message.MessageID, message.Chat.ID)
			return
		}
		b.handleMessage(processingCtx, message)

	default:
		if b.debug {
			log.Printf("Ignoring unhandled update type: %+v", update)
		}
	}
}

// handleCallbackQuery gates a decision callback and hands it to the processor.
func (b *Bot) handleCallbackQuery(ctx context.Context, query telego.CallbackQuery) {
	logPrefix := fmt.Sprintf("[Callback User:%d QueryID:%s]", query.From.ID, query.ID)
	if b.debug {
		log.Printf("%s Received callback query with data: %q", logPrefix, query.Data)
	}

	_, welcome, err := b.handler.EnsureWelcome(ctx, &query.From, query.From.ID)
	if err != nil {
		log.Printf("%s Sender gate error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s sender gate error: %w", logPrefix, err))
		return
	}
	if !welcome {
		return
	}

	if err := b.decisions.HandleCallback(ctx, query); err != nil {
		log.Printf("%s Decision handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s decision handler error: %w", logPrefix, err))
	}
}

// handleMessage gates a message and routes it by content: document
// submissions, slash commands, everything else.
func (b *Bot) handleMessage(ctx context.Context, message telego.Message) {
	logPrefix := fmt.Sprintf("[Msg User:%d Msg:%d]", message.From.ID, message.MessageID)

	sender, welcome, err := b.handler.EnsureWelcome(ctx, message.From, message.Chat.ID)
	if err != nil {
		log.Printf("%s Sender gate error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s sender gate error: %w", logPrefix, err))
		return
	}
	if !welcome {
		log.Printf("%s Dropping update from banned user", logPrefix)
		return
	}

	switch {
	case message.Document != nil:
		err = b.handler.HandleDocument(ctx, message, sender)
	case strings.HasPrefix(message.Text, "/"):
		err = b.handler.HandleCommand(ctx, message, sender)
	default:
		err = b.handler.HandleUnsupported(ctx, message, sender)
	}
	if err != nil {
		log.Printf("%s Handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s handler error: %w", logPrefix, err))
	}
}

// Start begins the bot's update processing loop. Each update runs on its own
// goroutine; Start returns after the context is done and all in-flight
// handlers have finished.
func (b *Bot) Start(ctx context.Context) {
	log.Println("Listening for updates...")

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Println("Context done, stopping update processing...")
			wg.Wait()
			log.Println("All update processing finished.")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Println("Updates channel closed.")
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				b.processUpdate(ctx, up)
			}(update)
		}
	}
}

// Stop gracefully stops the bot.
func (b *Bot) Stop() {
	log.Println("Bot Stop method called. Actual stop triggered by context cancellation.")
}
