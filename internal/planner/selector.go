package planner

import (
	"recipebox/internal/recipe"
)

// selectionState carries the constraint state shared across all 21 slot
// selections of one generation run.
type selectionState struct {
	tracker      *AisleUsageTracker
	usedThisRun  map[string]bool
	previousWeek map[string]bool
}

func newSelectionState(previousWeek map[string]bool) *selectionState {
	if previousWeek == nil {
		previousWeek = map[string]bool{}
	}
	return &selectionState{
		tracker:      NewAisleUsageTracker(),
		usedThisRun:  make(map[string]bool),
		previousWeek: previousWeek,
	}
}

// leadAisle is the aisle of the recipe's first ingredient, which stands in
// for the recipe's dominant category during selection.
func leadAisle(rec recipe.Recipe) Aisle {
	if len(rec.Ingredients) == 0 {
		return AisleUnknown
	}
	a, _ := ParseAisle(rec.Ingredients[0].Aisle)
	return a
}

// selectRecipe picks one recipe from the slot's candidate list, trying a
// sequence of progressively relaxed filters. Each level is scanned in
// candidate order and the first match wins:
//
//  1. unused this run, lead aisle under its weekly cap, lead aisle not yet
//     used today, not in the previous week
//  2. drop the weekly-cap check
//  3. drop the not-used-today check
//  4. drop the previous-week check
//  5. first candidate unconditionally
//
// The final level means a non-empty candidate list always yields a pick. On
// success the pick is registered with the tracker, the day's aisle set and
// the run's used set. The second return is false only for an empty candidate
// list.
func selectRecipe(candidates []recipe.Recipe, st *selectionState, dayAisles map[Aisle]bool) (recipe.Recipe, bool) {
	if len(candidates) == 0 {
		return recipe.Recipe{}, false
	}

	unused := func(r recipe.Recipe) bool { return !st.usedThisRun[r.ID] }
	underCap := func(r recipe.Recipe) bool { return st.tracker.CanUse(leadAisle(r)) }
	notToday := func(r recipe.Recipe) bool { return !dayAisles[leadAisle(r)] }
	notPrevWeek := func(r recipe.Recipe) bool { return !st.previousWeek[r.ID] }

	levels := []func(recipe.Recipe) bool{
		func(r recipe.Recipe) bool { return unused(r) && underCap(r) && notToday(r) && notPrevWeek(r) },
		func(r recipe.Recipe) bool { return unused(r) && notToday(r) && notPrevWeek(r) },
		func(r recipe.Recipe) bool { return unused(r) && notPrevWeek(r) },
		func(r recipe.Recipe) bool { return unused(r) },
		func(r recipe.Recipe) bool { return true },
	}

	for _, keep := range levels {
		for _, r := range candidates {
			if !keep(r) {
				continue
			}
			a := leadAisle(r)
			st.tracker.RecordUse(a)
			dayAisles[a] = true
			st.usedThisRun[r.ID] = true
			return r, true
		}
	}

	// Unreachable: the last level accepts everything.
	return recipe.Recipe{}, false
}
