package shopping

import (
	"context"
	"fmt"
	"testing"

	"recipebox/internal/llm"
	"recipebox/internal/planner"
	"recipebox/internal/recipe"
)

// --- Mocks ---

type MockTextGenerator struct {
	Response    string
	ShouldError bool
	LastPrompt  string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.LastPrompt = prompt
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response}, nil
}

// --- Tests ---

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Salt", "salt"},
		{"Salt, as Required", "salt"},
		{"olive oil as required for frying", "olive oil"},
		{"  Fresh Basil  ", "fresh basil"},
		{"onion,", "onion"},
	}

	for _, c := range cases {
		if got := normalizeName(c.in); got != c.want {
			t.Errorf("normalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGroup_MergesByImage(t *testing.T) {
	ingredients := []recipe.Ingredient{
		{Name: "Tomato", Image: "tomato.jpg", Quantity: 2, Unit: "pieces", Aisle: "produce"},
		{Name: "tomatoes, chopped", Image: "tomato.jpg", Quantity: 400, Unit: "g"},
		{Name: "Basil", Image: "basil.jpg", Quantity: 1, Unit: "bunch", Aisle: "produce"},
	}

	entries := Group(ingredients)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Sorted by name: basil first.
	if entries[0].Name != "basil" {
		t.Errorf("first entry = %s, want basil", entries[0].Name)
	}
	tomato := entries[1]
	if tomato.Name != "tomato" {
		t.Errorf("merged entry kept name %s, want tomato (first occurrence)", tomato.Name)
	}
	if len(tomato.Measures) != 2 {
		t.Fatalf("tomato has %d measures, want 2", len(tomato.Measures))
	}
	if tomato.Measures[0].Unit != "pieces" || tomato.Measures[1].Unit != "g" {
		t.Errorf("measures out of order: %+v", tomato.Measures)
	}
}

func TestGroup_MergesByNormalizedNameWithoutImage(t *testing.T) {
	ingredients := []recipe.Ingredient{
		{Name: "Salt", Quantity: 1, Unit: "tsp"},
		{Name: "salt, as required", Quantity: 0, Unit: ""},
	}

	entries := Group(ingredients)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Name != "salt" {
		t.Errorf("entry name = %s, want salt", entries[0].Name)
	}
	if len(entries[0].Measures) != 2 {
		t.Errorf("got %d measures, want 2", len(entries[0].Measures))
	}
}

func TestGroup_BackfillsAisle(t *testing.T) {
	ingredients := []recipe.Ingredient{
		{Name: "Flour", Image: "flour.jpg"},
		{Name: "Flour", Image: "flour.jpg", Aisle: "bakery/bread"},
	}

	entries := Group(ingredients)
	if entries[0].Aisle != "bakery/bread" {
		t.Errorf("aisle = %q, want backfilled bakery/bread", entries[0].Aisle)
	}
}

func TestGroup_Idempotent(t *testing.T) {
	ingredients := []recipe.Ingredient{
		{Name: "Tomato", Image: "tomato.jpg", Quantity: 2, Unit: "pieces"},
		{Name: "Salt", Quantity: 1, Unit: "tsp"},
		{Name: "tomato", Image: "tomato.jpg", Quantity: 1, Unit: "piece"},
	}

	first := Group(ingredients)
	second := Group(ingredients)

	if len(first) != len(second) {
		t.Fatalf("entry counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name || len(first[i].Measures) != len(second[i].Measures) {
			t.Errorf("entry %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestFilterNonIngredients(t *testing.T) {
	gen := &MockTextGenerator{Response: "water, salt to taste"}
	a := NewAggregator(gen)

	entries := []Entry{
		{Name: "chicken breast"},
		{Name: "water"},
		{Name: "salt to taste"},
	}

	kept, meta, err := a.FilterNonIngredients(context.Background(), entries)
	if err != nil {
		t.Fatalf("FilterNonIngredients failed: %v", err)
	}
	if meta.AgentName != "IngredientFilter" {
		t.Errorf("agent name = %s", meta.AgentName)
	}
	if len(kept) != 1 || kept[0].Name != "chicken breast" {
		t.Errorf("kept = %+v, want only chicken breast", kept)
	}
}

func TestFilterNonIngredients_EmptyReplyKeepsAll(t *testing.T) {
	a := NewAggregator(&MockTextGenerator{Response: ""})

	entries := []Entry{{Name: "rice"}, {Name: "beans"}}
	kept, _, err := a.FilterNonIngredients(context.Background(), entries)
	if err != nil {
		t.Fatalf("FilterNonIngredients failed: %v", err)
	}
	if len(kept) != 2 {
		t.Errorf("kept %d entries, want 2", len(kept))
	}
}

func TestBuildShoppingList_FailsClosed(t *testing.T) {
	a := NewAggregator(&MockTextGenerator{ShouldError: true})

	plan := &planner.WeeklyPlan{}
	plan.Days[0].Breakfast = recipe.Recipe{
		Ingredients: []recipe.Ingredient{{Name: "Oats", Quantity: 100, Unit: "g"}},
	}

	entries, _, err := a.BuildShoppingList(context.Background(), plan)
	if err == nil {
		t.Fatal("expected an error from the failing collaborator")
	}
	if entries != nil {
		t.Errorf("expected no entries on filter failure, got %+v", entries)
	}
}

func TestBuildShoppingList(t *testing.T) {
	gen := &MockTextGenerator{Response: "water"}
	a := NewAggregator(gen)

	plan := &planner.WeeklyPlan{}
	plan.Days[0].Breakfast = recipe.Recipe{
		Ingredients: []recipe.Ingredient{
			{Name: "Oats", Quantity: 100, Unit: "g"},
			{Name: "Water", Quantity: 200, Unit: "ml"},
		},
	}
	plan.Days[1].Dinner = recipe.Recipe{
		Ingredients: []recipe.Ingredient{{Name: "oats", Quantity: 50, Unit: "g"}},
	}

	entries, _, err := a.BuildShoppingList(context.Background(), plan)
	if err != nil {
		t.Fatalf("BuildShoppingList failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (water filtered, oats merged): %+v", len(entries), entries)
	}
	if entries[0].Name != "oats" || len(entries[0].Measures) != 2 {
		t.Errorf("entry = %+v, want oats with 2 measures", entries[0])
	}
	if gen.LastPrompt == "" {
		t.Error("filter prompt was never sent")
	}
}
