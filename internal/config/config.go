package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	// Remote recipe source (optional). The source is configured only when
	// both the spreadsheet ID and the API key are set; otherwise the
	// built-in recipe set is used.
	SheetsSpreadsheetID  string
	SheetsAPIKey         string
	SheetsRecipesTab     string
	SheetsIngredientsTab string

	// Telegram Config (optional for CLI, required for the bot)
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("MEAL_PLANNER_DB_PATH")
	if dbPath == "" {
		dbPath = "data/meal-planner.db"
	}

	recipesTab := os.Getenv("SHEETS_RECIPES_TAB")
	if recipesTab == "" {
		recipesTab = "Recipes"
	}
	ingredientsTab := os.Getenv("SHEETS_INGREDIENTS_TAB")
	if ingredientsTab == "" {
		ingredientsTab = "Ingredients"
	}

	var telegramAllowUserID int64
	if s := os.Getenv("TELEGRAM_ALLOW_USER_ID"); s != "" {
		if _, err := fmt.Sscanf(s, "%d", &telegramAllowUserID); err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOW_USER_ID is not a number: %w", err)
		}
	}

	return &Config{
		DatabasePath:         dbPath,
		SheetsSpreadsheetID:  os.Getenv("SHEETS_SPREADSHEET_ID"),
		SheetsAPIKey:         os.Getenv("SHEETS_API_KEY"),
		SheetsRecipesTab:     recipesTab,
		SheetsIngredientsTab: ingredientsTab,
		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:   os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowUserID:  telegramAllowUserID,
	}, nil
}

// RemoteConfigured reports whether the remote recipe source can be used.
func (c *Config) RemoteConfigured() bool {
	return c.SheetsSpreadsheetID != "" && c.SheetsAPIKey != ""
}

// ValidateForBot checks the extra variables the Telegram bot requires.
func (c *Config) ValidateForBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if c.TelegramAllowUserID == 0 {
		return fmt.Errorf("TELEGRAM_ALLOW_USER_ID environment variable not set")
	}
	return nil
}
