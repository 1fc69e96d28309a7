package planner

import (
	"recipebox/internal/recipe"
)

// maxBreakfastPrepMinutes caps how long a breakfast recipe may take.
const maxBreakfastPrepMinutes = 30

// SlotCandidates holds the candidate subsets for the three meal slots. A
// recipe may appear in more than one subset.
type SlotCandidates struct {
	Breakfast []recipe.Recipe
	Lunch     []recipe.Recipe
	Dinner    []recipe.Recipe
}

// ForSlot returns the candidate list for the given slot.
func (c SlotCandidates) ForSlot(s Slot) []recipe.Recipe {
	switch s {
	case SlotBreakfast:
		return c.Breakfast
	case SlotLunch:
		return c.Lunch
	default:
		return c.Dinner
	}
}

// SplitBySlot partitions the candidate recipe list into breakfast, lunch and
// dinner subsets. Recipes with dish-type tags are matched against the
// per-slot tag sets; untagged recipes fall back to their ingredients' aisles.
// Input order is preserved within each subset.
func SplitBySlot(recipes []recipe.Recipe) SlotCandidates {
	var out SlotCandidates
	for _, rec := range recipes {
		if fitsSlot(rec, SlotBreakfast) {
			out.Breakfast = append(out.Breakfast, rec)
		}
		if fitsSlot(rec, SlotLunch) {
			out.Lunch = append(out.Lunch, rec)
		}
		if fitsSlot(rec, SlotDinner) {
			out.Dinner = append(out.Dinner, rec)
		}
	}
	return out
}

func fitsSlot(rec recipe.Recipe, s Slot) bool {
	if s == SlotBreakfast && rec.ReadyInMinutes > maxBreakfastPrepMinutes {
		return false
	}

	if len(rec.DishTypes) > 0 {
		for _, tag := range slotTags(s) {
			if rec.HasDishType(tag) {
				return true
			}
		}
		return false
	}

	// No dish-type tags: classify by ingredient aisles instead.
	allowed := slotAisles(s)
	for _, ing := range rec.Ingredients {
		if a, ok := ParseAisle(ing.Aisle); ok && allowed[a] {
			return true
		}
	}
	return false
}
