package planner

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"recipebox/internal/recipe"
)

// Catalog resolves recipes from the catalog document store.
type Catalog interface {
	List(ctx context.Context) ([]recipe.Recipe, error)
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
}

// PlanStore persists current/previous weekly plan documents per user.
type PlanStore interface {
	// Current returns the user's current-week document, or nil if absent.
	Current(ctx context.Context, userID string) (*PlanDocument, error)
	// Rotate copies the current document to the previous slot and writes doc
	// as the new current, atomically.
	Rotate(ctx context.Context, userID string, doc PlanDocument) error
}

// UnfillableSlotError reports a slot whose candidate list was empty, which
// makes the whole week generation fail.
type UnfillableSlotError struct {
	Day  string
	Slot Slot
}

func (e *UnfillableSlotError) Error() string {
	return fmt.Sprintf("no candidate recipes for %s %s", e.Day, e.Slot)
}

// Builder generates, persists and resolves weekly plans.
type Builder struct {
	catalog Catalog
	plans   PlanStore
	rng     *rand.Rand
}

// NewBuilder creates a Builder with a time-seeded shuffle source.
func NewBuilder(catalog Catalog, plans PlanStore) *Builder {
	return &Builder{
		catalog: catalog,
		plans:   plans,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// newBuilderWithRand is used by tests for deterministic shuffles.
func newBuilderWithRand(catalog Catalog, plans PlanStore, rng *rand.Rand) *Builder {
	return &Builder{catalog: catalog, plans: plans, rng: rng}
}

// GeneratePlan builds a week of meals from the candidate recipes. The
// previous week's recipe ids are read from the user's stored current-week
// document, which at generation time still holds the week now ending; a read
// failure degrades to "no previous week".
func (b *Builder) GeneratePlan(ctx context.Context, candidates []recipe.Recipe, userID string) (*WeeklyPlan, error) {
	var previousWeek map[string]bool
	if cur, err := b.plans.Current(ctx, userID); err != nil {
		log.Printf("Warning: failed to read previous plan for user %s: %v", userID, err)
	} else if cur != nil {
		previousWeek = cur.RecipeIDs()
	}

	// One shuffle per run seeds variety across all slots and days.
	shuffled := make([]recipe.Recipe, len(candidates))
	copy(shuffled, candidates)
	b.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	slots := SplitBySlot(shuffled)
	state := newSelectionState(previousWeek)

	plan := &WeeklyPlan{WeekKey: WeekKey(time.Now())}
	for dayIdx, dayName := range Weekdays {
		dayAisles := make(map[Aisle]bool)
		var meals [3]recipe.Recipe
		for i, slot := range Slots {
			pick, ok := selectRecipe(slots.ForSlot(slot), state, dayAisles)
			if !ok {
				return nil, &UnfillableSlotError{Day: dayName, Slot: slot}
			}
			meals[i] = pick
		}
		plan.Days[dayIdx] = DayMeal{Breakfast: meals[0], Lunch: meals[1], Dinner: meals[2]}
	}

	return plan, nil
}

// PersistPlan stores the plan as the user's current week, rotating the old
// current document into the previous slot. weekStart keys the snapshot.
func (b *Builder) PersistPlan(ctx context.Context, userID string, plan *WeeklyPlan, weekStart time.Time) error {
	doc := plan.Document()
	doc.WeekKey = WeekKey(weekStart)
	if err := b.plans.Rotate(ctx, userID, doc); err != nil {
		return fmt.Errorf("failed to persist plan for user %s: %w", userID, err)
	}
	return nil
}

// CurrentPlan loads the user's current-week document and resolves every
// recipe id against the catalog. A day with any unresolvable slot is logged
// and dropped; the plan is returned only when all 7 days resolved.
func (b *Builder) CurrentPlan(ctx context.Context, userID string) (*WeeklyPlan, error) {
	doc, err := b.plans.Current(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current plan for user %s: %w", userID, err)
	}
	if doc == nil {
		return nil, nil
	}

	plan := &WeeklyPlan{WeekKey: doc.WeekKey}
	resolved := 0
	for dayIdx, dayName := range Weekdays {
		ids, ok := doc.Days[dayName]
		if !ok {
			log.Printf("Warning: plan for user %s has no entry for %s", userID, dayName)
			continue
		}
		day, err := b.resolveDay(ctx, ids)
		if err != nil {
			log.Printf("Warning: failed to resolve %s for user %s: %v", dayName, userID, err)
			continue
		}
		plan.Days[dayIdx] = day
		resolved++
	}

	if resolved != len(Weekdays) {
		return nil, nil
	}
	return plan, nil
}

func (b *Builder) resolveDay(ctx context.Context, ids DayMealIDs) (DayMeal, error) {
	var day DayMeal
	for _, ref := range []struct {
		id   string
		slot Slot
		dst  *recipe.Recipe
	}{
		{ids.Breakfast, SlotBreakfast, &day.Breakfast},
		{ids.Lunch, SlotLunch, &day.Lunch},
		{ids.Dinner, SlotDinner, &day.Dinner},
	} {
		rec, err := b.catalog.Get(ctx, ref.id)
		if err != nil {
			return DayMeal{}, err
		}
		if rec == nil {
			return DayMeal{}, fmt.Errorf("%s recipe %q not found", ref.slot, ref.id)
		}
		*ref.dst = *rec
	}
	return day, nil
}
