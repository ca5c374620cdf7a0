package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stickerbot/internal/auth"
	"stickerbot/internal/config"
	"stickerbot/internal/database"
	"stickerbot/internal/handlers"
	"stickerbot/internal/locales"
	"stickerbot/internal/review"

	appBot "stickerbot/bot"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	locales.Init(cfg.DefaultLanguage)

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	defer func() {
		if err = client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
			sentry.CaptureException(err)
		} else {
			log.Println("Disconnected from MongoDB.")
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	suggestionRepo := database.NewMongoSuggestionRepository(db)
	senderRepo := database.NewMongoSenderRepository(db)
	reviewRepo := database.NewMongoReviewRepository(db)

	var bot *telego.Bot
	if cfg.Debug {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultDebugLogger())
	} else {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultLogger(false, false))
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create telego bot: %v", err)
	}

	reviewerChecker, err := auth.NewReviewerChecker(bot, cfg.ReviewChatID)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create reviewer checker: %v", err)
	}

	queue := review.NewQueue(bot, suggestionRepo, senderRepo, cfg.ReviewChatID)
	submissions := review.NewSubmissionHandler(bot, suggestionRepo, queue)
	decisions := review.NewDecisionProcessor(bot, suggestionRepo, senderRepo, reviewRepo, reviewerChecker, queue, cfg.ReviewChatID)

	messageHandler := handlers.NewMessageHandler(
		bot,
		senderRepo,
		suggestionRepo,
		reviewRepo,
		submissions,
		reviewerChecker,
		queue,
		cfg.GuidelinesURL,
	)

	if err := messageHandler.SetupCommands(ctx); err != nil {
		log.Printf("Failed to register bot commands: %v", err)
		sentry.CaptureException(err)
	}

	updatesChan, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to start long polling: %v", err)
	}

	app, err := appBot.New(appBot.BotDeps{
		Bot:         bot,
		UpdatesChan: updatesChan,
		Handler:     messageHandler,
		Decisions:   decisions,
		Debug:       cfg.Debug,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	// Surface anything already waiting in the queue on startup.
	if err := queue.Advance(ctx); err != nil {
		log.Printf("Failed to render pending suggestion on startup: %v", err)
		sentry.CaptureException(err)
	}

	go app.Start(ctx)

	<-ctx.Done()

	log.Println("Shutting down bot...")
	app.Stop()

	log.Println("Bot shutdown complete.")
}
