package app

import (
	"context"
	"log"
	"time"

	"recipebox/internal/clipper"
	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/metrics"
	"recipebox/internal/planner"
	"recipebox/internal/recipe"
	"recipebox/internal/shopping"
)

// App wires the repositories and services together and forms the operation
// boundary: failures below are caught and logged here, and callers receive
// empty results instead of errors.
type App struct {
	cfg *config.Config
	db  *database.DB

	recipes      *recipe.Repository
	plans        *planner.PlanRepository
	builder      *planner.Builder
	shoppingRepo *shopping.Repository
	aggregator   *shopping.Aggregator
	metricsStore *metrics.Store
	recipeClip   *clipper.Clipper
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	recipes *recipe.Repository,
	plans *planner.PlanRepository,
	builder *planner.Builder,
	shoppingRepo *shopping.Repository,
	aggregator *shopping.Aggregator,
	metricsStore *metrics.Store,
	recipeClip *clipper.Clipper,
) *App {
	return &App{
		cfg:          cfg,
		db:           db,
		recipes:      recipes,
		plans:        plans,
		builder:      builder,
		shoppingRepo: shoppingRepo,
		aggregator:   aggregator,
		metricsStore: metricsStore,
		recipeClip:   recipeClip,
	}
}

// EnsureWeeklyPlan returns the user's plan for the current week, generating
// one when due. Generation happens on a user's first run regardless of the
// day, and otherwise only on Mondays; a plan already stored for this week is
// never regenerated. Returns nil when no plan could be produced.
func (a *App) EnsureWeeklyPlan(ctx context.Context, userID string) *planner.WeeklyPlan {
	now := time.Now()

	doc, err := a.plans.Current(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to read current plan for user %s: %v", userID, err)
		return nil
	}

	firstRun := doc == nil
	if !firstRun {
		if doc.WeekKey == planner.WeekKey(now) {
			return a.CurrentPlan(ctx, userID)
		}
		if now.Weekday() != time.Monday {
			// Stale plan, but regeneration waits for Monday.
			return a.CurrentPlan(ctx, userID)
		}
	}

	candidates, err := a.recipes.List(ctx)
	if err != nil {
		log.Printf("Warning: failed to list recipes for plan generation: %v", err)
		return nil
	}
	if len(candidates) == 0 {
		log.Printf("Warning: no recipes in catalog, cannot generate plan for user %s", userID)
		return nil
	}

	plan, err := a.builder.GeneratePlan(ctx, candidates, userID)
	if err != nil {
		log.Printf("Error generating plan for user %s: %v", userID, err)
		return nil
	}

	if err := a.builder.PersistPlan(ctx, userID, plan, planner.MondayOf(now)); err != nil {
		log.Printf("Error persisting plan for user %s: %v", userID, err)
		return nil
	}

	log.Printf("Generated weekly plan %s for user %s", plan.WeekKey, userID)
	return plan
}

// CurrentPlan returns the user's fully resolved current-week plan, or nil.
func (a *App) CurrentPlan(ctx context.Context, userID string) *planner.WeeklyPlan {
	plan, err := a.builder.CurrentPlan(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to load current plan for user %s: %v", userID, err)
		return nil
	}
	return plan
}

// BuildShoppingList derives, persists and returns the shopping list for the
// user's current plan. Any failure, including the ingredient filter, yields
// an empty list.
func (a *App) BuildShoppingList(ctx context.Context, userID string) []shopping.Entry {
	plan := a.CurrentPlan(ctx, userID)
	if plan == nil {
		log.Printf("Warning: no current plan for user %s, shopping list is empty", userID)
		return []shopping.Entry{}
	}

	entries, meta, err := a.aggregator.BuildShoppingList(ctx, plan)
	if recErr := a.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, recErr)
	}
	if err != nil {
		log.Printf("Error building shopping list for user %s: %v", userID, err)
		return []shopping.Entry{}
	}

	if err := a.shoppingRepo.Save(ctx, userID, entries); err != nil {
		log.Printf("Warning: failed to save shopping list for user %s: %v", userID, err)
	}
	return entries
}

// ShoppingList returns the user's persisted shopping list, or empty.
func (a *App) ShoppingList(ctx context.Context, userID string) []shopping.Entry {
	entries, err := a.shoppingRepo.Get(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to load shopping list for user %s: %v", userID, err)
		return []shopping.Entry{}
	}
	if entries == nil {
		return []shopping.Entry{}
	}
	return entries
}

// ToggleEntryPurchased sets an entry's purchased flag. Returns whether the
// toggle took effect.
func (a *App) ToggleEntryPurchased(ctx context.Context, userID, entryName string, purchased bool) bool {
	if err := a.shoppingRepo.Toggle(ctx, userID, entryName, purchased); err != nil {
		log.Printf("Warning: failed to toggle entry %q for user %s: %v", entryName, userID, err)
		return false
	}
	return true
}

// ClipRecipe imports the recipe at the given URL as a user-owned recipe.
func (a *App) ClipRecipe(ctx context.Context, userID, url string) *recipe.Recipe {
	rec, meta, err := a.recipeClip.ClipURL(ctx, url, userID)
	if recErr := a.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, recErr)
	}
	if err != nil {
		log.Printf("Error clipping recipe from %s: %v", url, err)
		return nil
	}
	log.Printf("Clipped recipe '%s' (%s) for user %s", rec.Title, rec.ID, userID)
	return rec
}
