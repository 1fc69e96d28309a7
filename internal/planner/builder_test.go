package planner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"recipebox/internal/recipe"
)

// --- Mocks ---

type MockCatalog struct {
	Recipes map[string]recipe.Recipe
}

func (m *MockCatalog) List(ctx context.Context) ([]recipe.Recipe, error) {
	out := make([]recipe.Recipe, 0, len(m.Recipes))
	for _, r := range m.Recipes {
		out = append(out, r)
	}
	return out, nil
}

func (m *MockCatalog) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	r, ok := m.Recipes[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

type MockPlanStore struct {
	CurrentDoc  *PlanDocument
	RotatedDoc  *PlanDocument
	CurrentErr  error
	RotateErr   error
	RotateCalls int
}

func (m *MockPlanStore) Current(ctx context.Context, userID string) (*PlanDocument, error) {
	return m.CurrentDoc, m.CurrentErr
}

func (m *MockPlanStore) Rotate(ctx context.Context, userID string, doc PlanDocument) error {
	m.RotateCalls++
	if m.RotateErr != nil {
		return m.RotateErr
	}
	m.RotatedDoc = &doc
	return nil
}

// --- Fixtures ---

// fullCatalog returns enough distinct recipes that a week never needs to
// reuse one: 8 breakfasts and 16 mains.
func fullCatalog() []recipe.Recipe {
	var out []recipe.Recipe
	for i := 0; i < 8; i++ {
		out = append(out, recipe.Recipe{
			ID:             fmt.Sprintf("breakfast-%d", i),
			Title:          fmt.Sprintf("Breakfast %d", i),
			ReadyInMinutes: 15,
			DishTypes:      []string{"breakfast"},
			Ingredients:    []recipe.Ingredient{{Name: "oats", Aisle: "cereal"}},
		})
	}
	aisles := []string{"meat", "seafood", "produce", "ethnic foods"}
	for i := 0; i < 16; i++ {
		out = append(out, recipe.Recipe{
			ID:             fmt.Sprintf("main-%d", i),
			Title:          fmt.Sprintf("Main %d", i),
			ReadyInMinutes: 45,
			DishTypes:      []string{"lunch", "dinner"},
			Ingredients:    []recipe.Ingredient{{Name: "lead", Aisle: aisles[i%len(aisles)]}},
		})
	}
	return out
}

func testBuilder(store PlanStore) *Builder {
	return newBuilderWithRand(&MockCatalog{}, store, rand.New(rand.NewSource(1)))
}

// --- Tests ---

func TestGeneratePlan_FillsEverySlot(t *testing.T) {
	b := testBuilder(&MockPlanStore{})

	plan, err := b.GeneratePlan(context.Background(), fullCatalog(), "u1")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	for i, day := range plan.Days {
		for _, slot := range Slots {
			if day.ForSlot(slot).ID == "" {
				t.Errorf("%s %s is empty", Weekdays[i], slot)
			}
		}
	}
}

func TestGeneratePlan_NoRepeatsWithEnoughRecipes(t *testing.T) {
	b := testBuilder(&MockPlanStore{})

	plan, err := b.GeneratePlan(context.Background(), fullCatalog(), "u1")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	seen := map[string]string{}
	for i, day := range plan.Days {
		for _, slot := range Slots {
			id := day.ForSlot(slot).ID
			if prev, dup := seen[id]; dup {
				t.Errorf("recipe %s planned twice: %s and %s %s", id, prev, Weekdays[i], slot)
			}
			seen[id] = fmt.Sprintf("%s %s", Weekdays[i], slot)
		}
	}
}

func TestGeneratePlan_RepetitionBound(t *testing.T) {
	// 10 candidates per slot for 7 picks each: nothing needs reusing.
	var catalog []recipe.Recipe
	for _, slot := range []string{"breakfast", "lunch", "dinner"} {
		for i := 0; i < 10; i++ {
			catalog = append(catalog, recipe.Recipe{
				ID:             fmt.Sprintf("%s-%d", slot, i),
				Title:          fmt.Sprintf("%s %d", slot, i),
				ReadyInMinutes: 20,
				DishTypes:      []string{slot},
				Ingredients:    []recipe.Ingredient{{Name: "lead", Aisle: "produce"}},
			})
		}
	}
	b := testBuilder(&MockPlanStore{})

	plan, err := b.GeneratePlan(context.Background(), catalog, "u1")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	counts := map[string]int{}
	for _, day := range plan.Days {
		for _, slot := range Slots {
			counts[day.ForSlot(slot).ID]++
		}
	}
	for id, n := range counts {
		if n > 3 {
			t.Errorf("recipe %s planned %d times, bound is 3", id, n)
		}
	}
}

func TestGeneratePlan_AvoidsPreviousWeek(t *testing.T) {
	// The stored current week becomes "previous" for the new run. With mains
	// to spare, none of last week's mains should return.
	prevDoc := &PlanDocument{WeekKey: "9-6", Days: map[string]DayMealIDs{}}
	for i, name := range Weekdays {
		prevDoc.Days[name] = DayMealIDs{
			Breakfast: fmt.Sprintf("breakfast-%d", i%8),
			Lunch:     fmt.Sprintf("main-%d", i),
			Dinner:    fmt.Sprintf("main-%d", i+7),
		}
	}
	b := testBuilder(&MockPlanStore{CurrentDoc: prevDoc})

	// 16 previously used mains plus 14 fresh ones.
	catalog := fullCatalog()
	for i := 16; i < 30; i++ {
		catalog = append(catalog, recipe.Recipe{
			ID:             fmt.Sprintf("main-%d", i),
			Title:          fmt.Sprintf("Main %d", i),
			ReadyInMinutes: 45,
			DishTypes:      []string{"lunch", "dinner"},
			Ingredients:    []recipe.Ingredient{{Name: "lead", Aisle: "produce"}},
		})
	}

	plan, err := b.GeneratePlan(context.Background(), catalog, "u1")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	prevIDs := prevDoc.RecipeIDs()
	for i, day := range plan.Days {
		for _, slot := range []Slot{SlotLunch, SlotDinner} {
			if id := day.ForSlot(slot).ID; prevIDs[id] {
				t.Errorf("%s %s reuses previous week's %s", Weekdays[i], slot, id)
			}
		}
	}
}

func TestGeneratePlan_MeatCapAcrossWeek(t *testing.T) {
	// Plenty of non-meat alternatives: meat-led mains must stay within cap.
	b := testBuilder(&MockPlanStore{})

	catalog := fullCatalog()
	for i := 16; i < 24; i++ {
		catalog = append(catalog, recipe.Recipe{
			ID:             fmt.Sprintf("main-%d", i),
			Title:          fmt.Sprintf("Main %d", i),
			ReadyInMinutes: 45,
			DishTypes:      []string{"lunch", "dinner"},
			Ingredients:    []recipe.Ingredient{{Name: "lead", Aisle: []string{"seafood", "produce"}[i%2]}},
		})
	}

	plan, err := b.GeneratePlan(context.Background(), catalog, "u1")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	meatCount := 0
	for _, day := range plan.Days {
		for _, slot := range Slots {
			rec := day.ForSlot(slot)
			if a, _ := ParseAisle(rec.Ingredients[0].Aisle); a == AisleMeat {
				meatCount++
			}
		}
	}
	if meatCount > 3 {
		t.Errorf("%d meat-led recipes planned, cap is 3", meatCount)
	}
}

func TestGeneratePlan_UnfillableSlot(t *testing.T) {
	b := testBuilder(&MockPlanStore{})

	// Mains only: breakfast has no candidates at all.
	var mainsOnly []recipe.Recipe
	for _, r := range fullCatalog() {
		if r.DishTypes[0] != "breakfast" {
			mainsOnly = append(mainsOnly, r)
		}
	}

	_, err := b.GeneratePlan(context.Background(), mainsOnly, "u1")
	var slotErr *UnfillableSlotError
	if !errors.As(err, &slotErr) {
		t.Fatalf("expected UnfillableSlotError, got %v", err)
	}
	if slotErr.Slot != SlotBreakfast || slotErr.Day != "Monday" {
		t.Errorf("error reports %s %s, want Monday breakfast", slotErr.Day, slotErr.Slot)
	}
}

func TestGeneratePlan_CurrentReadFailureDegrades(t *testing.T) {
	// A broken previous-plan read must not block generation.
	b := testBuilder(&MockPlanStore{CurrentErr: errors.New("store down")})

	plan, err := b.GeneratePlan(context.Background(), fullCatalog(), "u1")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if plan == nil {
		t.Fatal("expected a plan despite previous-week read failure")
	}
}

func TestPersistPlan(t *testing.T) {
	store := &MockPlanStore{}
	b := testBuilder(store)

	plan, err := b.GeneratePlan(context.Background(), fullCatalog(), "u1")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	weekStart := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	if err := b.PersistPlan(context.Background(), "u1", plan, weekStart); err != nil {
		t.Fatalf("PersistPlan failed: %v", err)
	}

	if store.RotateCalls != 1 {
		t.Fatalf("Rotate called %d times, want 1", store.RotateCalls)
	}
	if store.RotatedDoc.WeekKey != "16-6" {
		t.Errorf("persisted week key = %s, want 16-6", store.RotatedDoc.WeekKey)
	}
	if len(store.RotatedDoc.Days) != 7 {
		t.Errorf("persisted doc has %d days, want 7", len(store.RotatedDoc.Days))
	}
}

func TestCurrentPlan_ResolvesAllDays(t *testing.T) {
	catalog := &MockCatalog{Recipes: map[string]recipe.Recipe{}}
	doc := &PlanDocument{WeekKey: "16-6", Days: map[string]DayMealIDs{}}
	for _, name := range Weekdays {
		for _, id := range []string{"b-" + name, "l-" + name, "d-" + name} {
			catalog.Recipes[id] = recipe.Recipe{ID: id, Title: id}
		}
		doc.Days[name] = DayMealIDs{
			Breakfast: "b-" + name,
			Lunch:     "l-" + name,
			Dinner:    "d-" + name,
		}
	}
	b := newBuilderWithRand(catalog, &MockPlanStore{CurrentDoc: doc}, rand.New(rand.NewSource(1)))

	plan, err := b.CurrentPlan(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if plan == nil {
		t.Fatal("expected a resolved plan")
	}
	if plan.WeekKey != "16-6" {
		t.Errorf("week key = %s, want 16-6", plan.WeekKey)
	}
	if plan.Days[2].Lunch.ID != "l-Wednesday" {
		t.Errorf("wednesday lunch = %s, want l-Wednesday", plan.Days[2].Lunch.ID)
	}
}

func TestCurrentPlan_MissingRecipeDropsPlan(t *testing.T) {
	catalog := &MockCatalog{Recipes: map[string]recipe.Recipe{}}
	doc := &PlanDocument{WeekKey: "16-6", Days: map[string]DayMealIDs{}}
	for _, name := range Weekdays {
		for _, id := range []string{"b-" + name, "l-" + name, "d-" + name} {
			catalog.Recipes[id] = recipe.Recipe{ID: id, Title: id}
		}
		doc.Days[name] = DayMealIDs{
			Breakfast: "b-" + name,
			Lunch:     "l-" + name,
			Dinner:    "d-" + name,
		}
	}
	delete(catalog.Recipes, "d-Friday")
	b := newBuilderWithRand(catalog, &MockPlanStore{CurrentDoc: doc}, rand.New(rand.NewSource(1)))

	plan, err := b.CurrentPlan(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if plan != nil {
		t.Error("expected nil plan when a day cannot be resolved")
	}
}

func TestCurrentPlan_NoStoredPlan(t *testing.T) {
	b := testBuilder(&MockPlanStore{})

	plan, err := b.CurrentPlan(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if plan != nil {
		t.Error("expected nil plan for a user with no stored document")
	}
}
