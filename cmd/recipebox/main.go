package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"recipebox/internal/app"
	"recipebox/internal/clipper"
	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/llm"
	"recipebox/internal/metrics"
	"recipebox/internal/planner"
	"recipebox/internal/recipe"
	"recipebox/internal/shopping"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	var textGen llm.TextGenerator = geminiClient
	if cfg.GroqAPIKey != "" {
		textGen = llm.NewGroqClient(cfg)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	builder := planner.NewBuilder(recipeRepo, planRepo)
	aggregator := shopping.NewAggregator(textGen)
	recipeClipper := clipper.NewClipper(textGen, recipeRepo)

	application := app.NewApp(
		cfg,
		db,
		recipeRepo,
		planRepo,
		builder,
		shoppingRepo,
		aggregator,
		metricsStore,
		recipeClipper,
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		user := planCmd.String("user", "default_user", "User ID to plan for")
		planCmd.Parse(os.Args[2:])

		plan := application.EnsureWeeklyPlan(ctx, *user)
		if plan == nil {
			log.Fatal("No plan could be produced")
		}
		printPlan(plan)
	case "shopping":
		shopCmd := flag.NewFlagSet("shopping", flag.ExitOnError)
		user := shopCmd.String("user", "default_user", "User ID to build the list for")
		shopCmd.Parse(os.Args[2:])

		entries := application.BuildShoppingList(ctx, *user)
		printShoppingList(entries)
	case "clip":
		clipCmd := flag.NewFlagSet("clip", flag.ExitOnError)
		user := clipCmd.String("user", "default_user", "User ID owning the clipped recipe")
		url := clipCmd.String("url", "", "Recipe page URL")
		clipCmd.Parse(os.Args[2:])
		if *url == "" {
			log.Fatal("clip requires -url")
		}

		rec := application.ClipRecipe(ctx, *user, *url)
		if rec == nil {
			log.Fatal("Clipping failed")
		}
		fmt.Printf("Saved recipe '%s' (%s) with %d ingredients.\n", rec.Title, rec.ID, len(rec.Ingredients))
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printPlan(plan *planner.WeeklyPlan) {
	fmt.Printf("\n=== WEEKLY MEAL PLAN (%s) ===\n", plan.WeekKey)
	for i, dayName := range planner.Weekdays {
		day := plan.Days[i]
		fmt.Printf("%-10s breakfast: %s\n", dayName, day.Breakfast.Title)
		fmt.Printf("%-10s lunch:     %s\n", "", day.Lunch.Title)
		fmt.Printf("%-10s dinner:    %s\n", "", day.Dinner.Title)
	}
}

func printShoppingList(entries []shopping.Entry) {
	fmt.Println("\n=== SHOPPING LIST ===")
	for _, e := range entries {
		fmt.Printf("- %s", e.Name)
		for _, m := range e.Measures {
			fmt.Printf(" [%g %s]", m.Quantity, m.Unit)
		}
		fmt.Println()
	}
}

func printUsage() {
	fmt.Println("Usage: recipebox <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate or show the current weekly meal plan")
	fmt.Println("  shopping           Build the shopping list for the current plan")
	fmt.Println("  clip               Import a recipe from a URL")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
