// Package telegram is a thin presentation layer over the planning engine:
// every command delegates to internal/app and replies with its plain-text
// output.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatConfirmer answers the engine's confirmation prompts for destructive
// commands. Chat is not interactive mid-command, so a command must carry an
// explicit trailing "confirm" argument; anything else declines.
type ChatConfirmer struct {
	allow bool
}

// Allow arms or disarms the next confirmation.
func (c *ChatConfirmer) Allow(v bool) { c.allow = v }

// Confirm reports the armed answer and disarms.
func (c *ChatConfirmer) Confirm(prompt string) bool {
	v := c.allow
	c.allow = false
	return v
}

// Bot wraps the Telegram API around the planning app.
type Bot struct {
	api       *tgbotapi.BotAPI
	app       *app.App
	confirmer *ChatConfirmer
	cfg       *config.Config

	mu sync.Mutex // one command at a time; the engine is single-writer
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, confirmer *ChatConfirmer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{api: api, app: application, confirmer: confirmer, cfg: cfg}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)",
			update.Message.From.ID, update.Message.From.UserName)
		return
	}

	reply := b.dispatch(update.Message.Text)
	if reply == "" {
		return
	}
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending reply: %v", err)
	}
}

// dispatch runs one command against the app, capturing its text output as
// the reply.
func (b *Bot) dispatch(text string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	// Destructive commands need a trailing "confirm".
	if len(args) > 0 && strings.EqualFold(args[len(args)-1], "confirm") {
		b.confirmer.Allow(true)
		args = args[:len(args)-1]
	}
	defer b.confirmer.Allow(false)

	var buf bytes.Buffer
	prevOut := b.app.Out
	b.app.Out = &buf
	defer func() { b.app.Out = prevOut }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	now := time.Now()

	var err error
	switch cmd {
	case "week", "start":
		b.app.ShowWeek(ctx, now)
	case "shopping":
		b.app.ShoppingList(ctx)
	case "export":
		b.app.ExportShoppingList(ctx, now)
	case "assign":
		if len(args) != 2 {
			return "Usage: /assign <day-mealtime-person> <recipe-id>"
		}
		err = b.app.AssignSlot(ctx, args[0], args[1])
	case "remove":
		if len(args) != 1 {
			return "Usage: /remove <day-mealtime-person>"
		}
		err = b.app.RemoveSlot(ctx, args[0])
	case "clear":
		err = b.app.ClearWeek(ctx)
	case "save":
		err = b.app.SaveWeek(ctx, now)
	case "history":
		err = b.app.ShowHistory(ctx)
	case "copy":
		if len(args) != 1 {
			return "Usage: /copy <week-id> confirm"
		}
		err = b.app.CopyWeekForward(ctx, args[0])
	case "refresh":
		b.app.RefreshRecipes(ctx)
	case "recipes":
		b.app.ListRecipes(ctx)
	case "startday":
		if len(args) != 1 {
			return "Usage: /startday <day>"
		}
		err = b.app.ChangeStartDay(ctx, args[0])
	case "clip":
		if len(args) != 1 {
			return "Usage: /clip <url>"
		}
		err = b.app.ClipRecipe(ctx, args[0])
	case "help":
		return helpText
	default:
		return "Unknown command. Try /help."
	}

	if err != nil {
		return "Error: " + err.Error()
	}
	if buf.Len() == 0 {
		return "Done."
	}
	return buf.String()
}

const helpText = `Commands:
/week - show the weekly grid
/assign <slot> <recipe-id> - assign a meal (slot = day-mealtime-person)
/remove <slot> - empty a slot
/clear confirm - empty the whole week
/save - save this week to history
/history - list saved weeks
/copy <week-id> confirm - copy a saved week into the current week
/shopping - show the shopping list
/export - shopping list as copyable text
/recipes - list the catalog
/refresh - reload recipes from the remote source
/startday <day> - change the week start day
/clip <url> - import a recipe from a web page`
