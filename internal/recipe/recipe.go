package recipe

import (
	"strings"
	"time"
)

// Ingredient is a single recipe ingredient. Name, unit and aisle are free
// text as parsed from the source; the aisle drives both meal-slot fallback
// classification and shopping-list grouping.
type Ingredient struct {
	Name     string  `json:"name"`
	Image    string  `json:"image,omitempty"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Aisle    string  `json:"aisle,omitempty"`
}

// Recipe is a catalog or user-created recipe document.
type Recipe struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Image          string       `json:"image,omitempty"`
	Servings       int          `json:"servings"`
	Ingredients    []Ingredient `json:"ingredients"`
	Instructions   []string     `json:"instructions"`
	ReadyInMinutes int          `json:"ready_in_minutes"`
	DishTypes      []string     `json:"dish_types,omitempty"`

	// OwnerID is empty for catalog recipes.
	OwnerID string `json:"owner_id,omitempty"`

	GlutenFree bool `json:"gluten_free"`
	Vegan      bool `json:"vegan"`
	Vegetarian bool `json:"vegetarian"`

	CreatedAt time.Time `json:"created_at"`

	// UsedIngredientCount is only set by search contexts that distinguish
	// used/missing ingredients. Zero means "not overridden".
	UsedIngredientCount int `json:"used_ingredient_count,omitempty"`
}

// UsedIngredients returns the search-context override when present and the
// ingredient-list length otherwise.
func (r Recipe) UsedIngredients() int {
	if r.UsedIngredientCount > 0 {
		return r.UsedIngredientCount
	}
	return len(r.Ingredients)
}

// HasDishType reports whether the recipe carries the given dish-type tag,
// compared case-insensitively.
func (r Recipe) HasDishType(tag string) bool {
	for _, t := range r.DishTypes {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// applyDefaults substitutes defaults for fields missing from a stored
// document: empty lists and the current timestamp.
func (r *Recipe) applyDefaults() {
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}
