package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/catalog"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/database"
	"weekly-meal-planner/internal/metrics"
	"weekly-meal-planner/internal/plan"
	"weekly-meal-planner/internal/recipe"
	"weekly-meal-planner/internal/session"
	"weekly-meal-planner/internal/sheets"
	"weekly-meal-planner/internal/telegram"

	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateForBot(); err != nil {
		log.Fatalf("Invalid bot configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var source sheets.Client
	if cfg.RemoteConfigured() {
		source, err = sheets.NewGoogleClient(ctx, cfg.SheetsAPIKey, cfg.SheetsSpreadsheetID,
			cfg.SheetsRecipesTab, cfg.SheetsIngredientsTab)
		if err != nil {
			log.Fatalf("Failed to initialize sheets client: %v", err)
		}
	}

	cacheRepo := recipe.NewCacheRepository(db.SQL)
	customRepo := recipe.NewCustomRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	loader := catalog.NewLoader(source, cacheRepo, customRepo, metricsStore)

	confirmer := &telegram.ChatConfirmer{}
	sess := session.New(
		plan.NewDraftRepository(db.SQL),
		plan.NewSnapshotRepository(db.SQL),
		plan.NewHistoryRepository(db.SQL),
		plan.NewPreferenceRepository(db.SQL),
		confirmer,
	)

	application := &app.App{
		Session: sess,
		Loader:  loader,
		Clipper: clipper.NewClipper(customRepo),
		Metrics: metricsStore,
		Out:     os.Stdout,
	}
	application.Init(ctx, time.Now())

	bot, err := telegram.NewBot(cfg, application, confirmer)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}
	bot.RegisterHandlers()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Listening on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
