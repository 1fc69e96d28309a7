package planner

// weeklyAisleCaps limits how many recipes may lead with the same aisle in one
// generation run. Aisles not listed are unlimited.
var weeklyAisleCaps = map[Aisle]int{
	AisleMeat:      3,
	AislePastaRice: 3,
}

// AisleUsageTracker counts per-aisle usage during a single generation run. It
// is created by the builder for every run and threaded through the selector
// calls; it is never shared between runs or users.
type AisleUsageTracker struct {
	counts map[Aisle]int
}

// NewAisleUsageTracker returns a tracker with all counters at zero.
func NewAisleUsageTracker() *AisleUsageTracker {
	return &AisleUsageTracker{counts: make(map[Aisle]int)}
}

// CanUse reports whether the aisle is still under its weekly cap.
func (t *AisleUsageTracker) CanUse(a Aisle) bool {
	cap, capped := weeklyAisleCaps[a]
	if !capped {
		return true
	}
	return t.counts[a] < cap
}

// RecordUse increments the usage counter for the aisle.
func (t *AisleUsageTracker) RecordUse(a Aisle) {
	t.counts[a]++
}

// Uses returns the recorded usage count for the aisle.
func (t *AisleUsageTracker) Uses(a Aisle) int {
	return t.counts[a]
}
