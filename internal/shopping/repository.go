package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	shoppingdb "recipebox/internal/shopping/db"
)

// Repository handles persistence of shopping lists: one document per user,
// rewritten whole on every save. Concurrent writers are last-writer-wins.
type Repository struct {
	queries *shoppingdb.Queries
	db      *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: shoppingdb.New(d),
		db:      d,
	}
}

// Save overwrites the user's shopping list document with the full entry set.
func (r *Repository) Save(ctx context.Context, userID string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list entries: %w", err)
	}

	if err := r.queries.UpsertShoppingList(ctx, shoppingdb.UpsertShoppingListParams{
		UserID:    userID,
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to save shopping list for user %s: %w", userID, err)
	}
	return nil
}

// Get retrieves the user's shopping list. Returns nil if none is stored.
func (r *Repository) Get(ctx context.Context, userID string) ([]Entry, error) {
	row, err := r.queries.GetShoppingList(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list for user %s: %w", userID, err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(row.Data), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list for user %s: %w", userID, err)
	}
	return entries, nil
}

// Toggle sets the purchased flag of the entry with the exact given name and
// rewrites the whole document.
func (r *Repository) Toggle(ctx context.Context, userID, entryName string, purchased bool) error {
	entries, err := r.Get(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range entries {
		if entries[i].Name == entryName {
			entries[i].Purchased = purchased
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("shopping list entry %q not found for user %s", entryName, userID)
	}

	return r.Save(ctx, userID, entries)
}
