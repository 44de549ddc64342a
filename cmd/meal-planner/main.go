package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
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

	"github.com/joho/godotenv"
)

// stdinConfirmer asks destructive-operation confirmations on the terminal.
type stdinConfirmer struct{}

func (stdinConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func main() {
	ctx := context.Background()

	// A .env file is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
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

	sess := session.New(
		plan.NewDraftRepository(db.SQL),
		plan.NewSnapshotRepository(db.SQL),
		plan.NewHistoryRepository(db.SQL),
		plan.NewPreferenceRepository(db.SQL),
		stdinConfirmer{},
	)

	application := &app.App{
		Session: sess,
		Loader:  loader,
		Clipper: clipper.NewClipper(customRepo),
		Metrics: metricsStore,
		Out:     os.Stdout,
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	now := time.Now()
	application.Init(ctx, now)

	switch os.Args[1] {
	case "show":
		application.ShowWeek(ctx, now)
	case "assign":
		if len(os.Args) != 4 {
			log.Fatalf("Usage: meal-planner assign <day-mealtime-person> <recipe-id>")
		}
		if err := application.AssignSlot(ctx, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Assign failed: %v", err)
		}
	case "remove":
		if len(os.Args) != 3 {
			log.Fatalf("Usage: meal-planner remove <day-mealtime-person>")
		}
		if err := application.RemoveSlot(ctx, os.Args[2]); err != nil {
			log.Fatalf("Remove failed: %v", err)
		}
	case "clear":
		if err := application.ClearWeek(ctx); err != nil {
			log.Fatalf("Clear failed: %v", err)
		}
	case "save":
		if err := application.SaveWeek(ctx, now); err != nil {
			log.Fatalf("Save failed: %v", err)
		}
	case "history":
		if err := application.ShowHistory(ctx); err != nil {
			log.Fatalf("History failed: %v", err)
		}
	case "copy":
		if len(os.Args) != 3 {
			log.Fatalf("Usage: meal-planner copy <week-id>")
		}
		if err := application.CopyWeekForward(ctx, os.Args[2]); err != nil {
			log.Fatalf("Copy failed: %v", err)
		}
	case "shopping":
		application.ShoppingList(ctx)
	case "export":
		application.ExportShoppingList(ctx, now)
	case "refresh":
		application.RefreshRecipes(ctx)
	case "recipes":
		application.ListRecipes(ctx)
	case "start-day":
		if len(os.Args) != 3 {
			log.Fatalf("Usage: meal-planner start-day <day>")
		}
		if err := application.ChangeStartDay(ctx, os.Args[2]); err != nil {
			log.Fatalf("Start-day failed: %v", err)
		}
	case "clip":
		if len(os.Args) != 3 {
			log.Fatalf("Usage: meal-planner clip <url>")
		}
		if err := application.ClipRecipe(ctx, os.Args[2]); err != nil {
			log.Fatalf("Clip failed: %v", err)
		}
	case "stats":
		statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
		n := statsCmd.Int("n", 20, "Number of recent fetches to show")
		statsCmd.Parse(os.Args[2:])
		if err := application.ShowStats(ctx, *n); err != nil {
			log.Fatalf("Stats failed: %v", err)
		}
	case "stats-cleanup":
		cleanupCmd := flag.NewFlagSet("stats-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])
		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old fetch records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  show               Show the weekly grid")
	fmt.Println("  assign             Assign a recipe to a slot (day-mealtime-person)")
	fmt.Println("  remove             Empty a slot")
	fmt.Println("  clear              Empty the whole week (asks for confirmation)")
	fmt.Println("  save               Save this week to history")
	fmt.Println("  history            List saved weeks")
	fmt.Println("  copy               Copy a saved week into the current week")
	fmt.Println("  shopping           Show the consolidated shopping list")
	fmt.Println("  export             Shopping list as copyable text")
	fmt.Println("  refresh            Reload recipes from the remote source")
	fmt.Println("  recipes            List the recipe catalog")
	fmt.Println("  start-day          Change the week start day")
	fmt.Println("  clip               Import a recipe from a web page")
	fmt.Println("  stats              Show recent remote fetches")
	fmt.Println("  stats-cleanup      Remove old fetch records")
}
