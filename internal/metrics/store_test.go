package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"recipebox/internal/database"
	"recipebox/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestRecordAndDailyUsage(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(ExecutionMetric{
		AgentName:        "IngredientFilter",
		Model:            "gemini-1.5-flash",
		PromptTokens:     100,
		CompletionTokens: 20,
		LatencyMS:        350,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	usage, err := store.GetDailyUsage(1)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("got %d usage rows, want 1", len(usage))
	}
	if usage[0].TotalPrompt != 100 || usage[0].TotalCompletion != 20 || usage[0].TotalExecution != 1 {
		t.Errorf("usage = %+v", usage[0])
	}
	// SQLite's DATE() must be able to parse the stored timestamp.
	if want := time.Now().UTC().Format("2006-01-02"); usage[0].Date != want {
		t.Errorf("usage date = %q, want %q", usage[0].Date, want)
	}
}

func TestRecordMeta_SkipsEmptyUsage(t *testing.T) {
	store := newTestStore(t)

	if err := store.RecordMeta(shared.AgentMeta{AgentName: "Clipper"}); err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}

	usage, err := store.GetDailyUsage(1)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("zero-usage call was recorded: %+v", usage)
	}
}

func TestCleanup(t *testing.T) {
	store := newTestStore(t)

	old := ExecutionMetric{
		AgentName:    "Clipper",
		Model:        "gemini-1.5-flash",
		PromptTokens: 10,
		Timestamp:    time.Now().UTC().AddDate(0, 0, -60),
	}
	recent := old
	recent.Timestamp = time.Now().UTC()

	if err := store.Record(old); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(recent); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	removed, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d records, want 1", removed)
	}
}
