package planner

import (
	"fmt"
	"time"

	"recipebox/internal/recipe"
)

// Weekdays lists the days of the planning week, in ISO order.
var Weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DayMeal is the three recipes planned for one day.
type DayMeal struct {
	Breakfast recipe.Recipe `json:"breakfast"`
	Lunch     recipe.Recipe `json:"lunch"`
	Dinner    recipe.Recipe `json:"dinner"`
}

// ForSlot returns the recipe planned for the given slot.
func (d DayMeal) ForSlot(s Slot) recipe.Recipe {
	switch s {
	case SlotBreakfast:
		return d.Breakfast
	case SlotLunch:
		return d.Lunch
	default:
		return d.Dinner
	}
}

// WeeklyPlan is a full week of meals, indexed Monday through Sunday.
type WeeklyPlan struct {
	WeekKey string     `json:"week_key"`
	Days    [7]DayMeal `json:"days"`
}

// Document converts the plan to its persisted weekday->recipe-ids form.
func (p *WeeklyPlan) Document() PlanDocument {
	doc := PlanDocument{
		WeekKey: p.WeekKey,
		Days:    make(map[string]DayMealIDs, len(Weekdays)),
	}
	for i, name := range Weekdays {
		doc.Days[name] = DayMealIDs{
			Breakfast: p.Days[i].Breakfast.ID,
			Lunch:     p.Days[i].Lunch.ID,
			Dinner:    p.Days[i].Dinner.ID,
		}
	}
	return doc
}

// DayMealIDs is the persisted shape of a single day: just the recipe ids.
type DayMealIDs struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// PlanDocument is the stored form of a weekly plan.
type PlanDocument struct {
	WeekKey string                `json:"week_key"`
	Days    map[string]DayMealIDs `json:"days"`
}

// RecipeIDs returns the set of all recipe ids referenced by the document.
func (d *PlanDocument) RecipeIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, day := range d.Days {
		for _, id := range []string{day.Breakfast, day.Lunch, day.Dinner} {
			if id != "" {
				ids[id] = true
			}
		}
	}
	return ids
}

// MondayOf returns the Monday starting the ISO week containing t, truncated
// to midnight in t's location.
func MondayOf(t time.Time) time.Time {
	daysBack := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysBack)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// NextMonday returns the first Monday strictly after t, at midnight.
func NextMonday(t time.Time) time.Time {
	daysAhead := (8 - int(t.Weekday())) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	next := t.AddDate(0, 0, daysAhead)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// WeekKey derives the "{day}-{month}" identifier of the week containing t,
// taken from the Monday that starts it.
func WeekKey(t time.Time) string {
	monday := MondayOf(t)
	return fmt.Sprintf("%d-%d", monday.Day(), int(monday.Month()))
}
