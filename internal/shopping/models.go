package shopping

// Measure is one (quantity, unit) pair collected from a single ingredient
// occurrence. Pairs are kept distinct; no unit conversion is attempted.
type Measure struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Entry is one line of the shopping list: a canonical ingredient name with
// every measure it was planned in.
type Entry struct {
	Name      string    `json:"name"`
	Aisle     string    `json:"aisle,omitempty"`
	Image     string    `json:"image,omitempty"`
	Measures  []Measure `json:"measures"`
	Purchased bool      `json:"purchased"`
}
