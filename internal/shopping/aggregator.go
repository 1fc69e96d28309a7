package shopping

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"recipebox/internal/llm"
	"recipebox/internal/planner"
	"recipebox/internal/recipe"
	"recipebox/internal/shared"
)

//go:embed filter_prompt.md
var filterPrompt string

// Aggregator derives a shopping list from a weekly plan. The final filtering
// step asks the text-generation collaborator to weed out instruction phrases
// that leaked into ingredient parsing.
type Aggregator struct {
	textGen llm.TextGenerator
}

// NewAggregator creates a new Aggregator.
func NewAggregator(textGen llm.TextGenerator) *Aggregator {
	return &Aggregator{textGen: textGen}
}

// Flatten concatenates the ingredients of all 21 recipe slots in plan order,
// preserving duplicates and original casing.
func Flatten(plan *planner.WeeklyPlan) []recipe.Ingredient {
	var out []recipe.Ingredient
	for _, day := range plan.Days {
		for _, slot := range planner.Slots {
			out = append(out, day.ForSlot(slot).Ingredients...)
		}
	}
	return out
}

// normalizeName lowercases an ingredient name, truncates anything from an
// "as required" marker onwards and trims the leftovers.
func normalizeName(name string) string {
	n := strings.ToLower(name)
	if idx := strings.Index(n, "as required"); idx >= 0 {
		n = n[:idx]
	}
	n = strings.TrimSpace(n)
	n = strings.TrimRight(n, ", ")
	return n
}

// Group merges duplicate ingredients into shopping entries. Ingredients
// sharing a non-empty image reference group together; the rest group by
// normalized name. Measures accumulate per group without unit conversion.
// Entries come back sorted ascending by name with the purchased flag unset.
func Group(ingredients []recipe.Ingredient) []Entry {
	groups := make(map[string]*Entry)
	var order []string

	for _, ing := range ingredients {
		name := normalizeName(ing.Name)
		key := ing.Image
		if key == "" {
			key = "name:" + name
		}

		e, ok := groups[key]
		if !ok {
			e = &Entry{
				Name:  name,
				Aisle: ing.Aisle,
				Image: ing.Image,
			}
			groups[key] = e
			order = append(order, key)
		}
		if e.Aisle == "" && ing.Aisle != "" {
			e.Aisle = ing.Aisle
		}
		e.Measures = append(e.Measures, Measure{Quantity: ing.Quantity, Unit: ing.Unit})
	}

	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, *groups[key])
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// FilterNonIngredients removes entries the collaborator flags as leaked
// instructions. The collaborator's reply is expected to be a comma-separated
// list of names to exclude. A collaborator failure is returned as an error;
// callers must not fall back to the unfiltered list.
func (a *Aggregator) FilterNonIngredients(ctx context.Context, entries []Entry) ([]Entry, shared.AgentMeta, error) {
	if len(entries) == 0 {
		return entries, shared.AgentMeta{AgentName: "IngredientFilter"}, nil
	}

	start := time.Now()
	prompt, err := buildFilterPrompt(entries)
	if err != nil {
		return nil, shared.AgentMeta{AgentName: "IngredientFilter"}, err
	}

	resp, err := a.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: "IngredientFilter",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("ingredient filter failed: %w", err)
	}

	exclude := make(map[string]bool)
	for _, part := range strings.Split(resp.Content, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" {
			exclude[name] = true
		}
	}

	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if exclude[strings.ToLower(e.Name)] {
			continue
		}
		kept = append(kept, e)
	}
	return kept, meta, nil
}

// BuildShoppingList flattens, groups and filters the plan's ingredients. On
// collaborator failure the list build fails closed: no entries are returned.
func (a *Aggregator) BuildShoppingList(ctx context.Context, plan *planner.WeeklyPlan) ([]Entry, shared.AgentMeta, error) {
	grouped := Group(Flatten(plan))
	kept, meta, err := a.FilterNonIngredients(ctx, grouped)
	if err != nil {
		return nil, meta, err
	}
	return kept, meta, nil
}

func buildFilterPrompt(entries []Entry) (string, error) {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	tmpl, err := template.New("IngredientFilter").Parse(filterPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Names string }{Names: strings.Join(names, ", ")}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
