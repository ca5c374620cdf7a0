package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	BotToken        string
	ReviewChatID    int64
	GuidelinesURL   string
	SentryDSN       string
	MongoDBURI      string
	MongoDBDatabase string
	DefaultLanguage string
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	debug, _ := strconv.ParseBool(getEnv("DEBUG", "false"))

	reviewChatIDStr := getEnv("REVIEW_CHAT_ID", "")
	reviewChatID, err := strconv.ParseInt(reviewChatIDStr, 10, 64)
	if err != nil && reviewChatIDStr != "" {
		return nil, fmt.Errorf("invalid REVIEW_CHAT_ID: %w", err)
	}

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Debug:           debug,
		Version:         getEnv("VERSION", "dev"),
		BotToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		ReviewChatID:    reviewChatID,
		GuidelinesURL:   getEnv("GUIDELINES_URL", ""),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", ""),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.ReviewChatID == 0 {
		return nil, fmt.Errorf("REVIEW_CHAT_ID is required")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}
	if cfg.GuidelinesURL == "" {
		log.Println("Warning: GUIDELINES_URL is not set. /guidelines will reply without a link.")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBDatabase == "" {
		return nil, fmt.Errorf("MONGODB_DATABASE is required")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
