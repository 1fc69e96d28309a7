package planner

import (
	"strings"
)

// Slot is one of the three meals of a day.
type Slot int

const (
	SlotBreakfast Slot = iota
	SlotLunch
	SlotDinner
)

// Slots lists the slots in selection order.
var Slots = [3]Slot{SlotBreakfast, SlotLunch, SlotDinner}

func (s Slot) String() string {
	switch s {
	case SlotBreakfast:
		return "breakfast"
	case SlotLunch:
		return "lunch"
	case SlotDinner:
		return "dinner"
	}
	return "unknown"
}

// Aisle is the enumerated store-category of an ingredient. Raw source strings
// are mapped through ParseAisle so that casing or locale drift in the data
// never silently misses a match.
type Aisle int

const (
	AisleUnknown Aisle = iota
	AisleBakery
	AisleCereal
	AisleDairyEggs
	AisleCheese
	AisleSpreads
	AisleTeaCoffee
	AisleMeat
	AislePastaRice
	AisleEthnicFoods
	AisleProduce
	AisleSeafood
	AisleFrozen
)

func (a Aisle) String() string {
	switch a {
	case AisleBakery:
		return "bakery/bread"
	case AisleCereal:
		return "cereal"
	case AisleDairyEggs:
		return "milk, eggs, other dairy"
	case AisleCheese:
		return "cheese"
	case AisleSpreads:
		return "nut butters, jams, and honey"
	case AisleTeaCoffee:
		return "tea and coffee"
	case AisleMeat:
		return "meat"
	case AislePastaRice:
		return "pasta and rice"
	case AisleEthnicFoods:
		return "ethnic foods"
	case AisleProduce:
		return "produce"
	case AisleSeafood:
		return "seafood"
	case AisleFrozen:
		return "frozen"
	}
	return "unknown"
}

// aisleByRaw maps lowercased source strings to aisles. Includes the spellings
// seen in upstream ingredient data alongside the canonical names.
var aisleByRaw = map[string]Aisle{
	"bakery/bread":                 AisleBakery,
	"bread":                        AisleBakery,
	"bakery":                       AisleBakery,
	"cereal":                       AisleCereal,
	"milk, eggs, other dairy":      AisleDairyEggs,
	"dairy":                        AisleDairyEggs,
	"eggs":                         AisleDairyEggs,
	"cheese":                       AisleCheese,
	"nut butters, jams, and honey": AisleSpreads,
	"nut butters":                  AisleSpreads,
	"tea and coffee":               AisleTeaCoffee,
	"meat":                         AisleMeat,
	"pasta and rice":               AislePastaRice,
	"pasta":                        AislePastaRice,
	"rice":                         AislePastaRice,
	"ethnic foods":                 AisleEthnicFoods,
	"produce":                      AisleProduce,
	"seafood":                      AisleSeafood,
	"frozen":                       AisleFrozen,
}

// ParseAisle maps a raw aisle string to its enumerated value. The second
// return reports whether the string named a known aisle.
func ParseAisle(raw string) (Aisle, bool) {
	a, ok := aisleByRaw[strings.ToLower(strings.TrimSpace(raw))]
	return a, ok
}

// Dish-type tags accepted per slot, matched case-insensitively.
var (
	breakfastTags = []string{"breakfast", "morning meal", "brunch"}
	lunchTags     = []string{"lunch", "main course", "main dish"}
	dinnerTags    = []string{"dinner"}
)

// Fallback aisle sets per slot, for recipes without dish-type tags.
var (
	breakfastAisles = map[Aisle]bool{
		AisleBakery:    true,
		AisleCereal:    true,
		AisleDairyEggs: true,
		AisleCheese:    true,
		AisleSpreads:   true,
		AisleTeaCoffee: true,
	}
	lunchAisles = map[Aisle]bool{
		AisleMeat:        true,
		AislePastaRice:   true,
		AisleEthnicFoods: true,
		AisleProduce:     true,
		AisleDairyEggs:   true,
	}
	dinnerAisles = map[Aisle]bool{
		AisleMeat:        true,
		AisleEthnicFoods: true,
		AisleSeafood:     true,
		AislePastaRice:   true,
		AisleProduce:     true,
		AisleFrozen:      true,
	}
)

func slotTags(s Slot) []string {
	switch s {
	case SlotBreakfast:
		return breakfastTags
	case SlotLunch:
		return lunchTags
	default:
		return dinnerTags
	}
}

func slotAisles(s Slot) map[Aisle]bool {
	switch s {
	case SlotBreakfast:
		return breakfastAisles
	case SlotLunch:
		return lunchAisles
	default:
		return dinnerAisles
	}
}
