package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"recipebox/internal/planner/plan_db"
)

const (
	planSlotCurrent  = "current"
	planSlotPrevious = "previous"
)

// PlanRepository is a database-backed PlanStore. Current and previous week
// snapshots live in two rows per user; rotation runs in one transaction so a
// reader never observes the half-rotated state.
type PlanRepository struct {
	queries *plan_db.Queries
	db      *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{
		queries: plan_db.New(d),
		db:      d,
	}
}

// Current returns the user's current-week plan document, or nil if none is
// stored.
func (r *PlanRepository) Current(ctx context.Context, userID string) (*PlanDocument, error) {
	return r.get(ctx, userID, planSlotCurrent)
}

// Previous returns the user's previous-week plan document, or nil if none is
// stored.
func (r *PlanRepository) Previous(ctx context.Context, userID string) (*PlanDocument, error) {
	return r.get(ctx, userID, planSlotPrevious)
}

func (r *PlanRepository) get(ctx context.Context, userID, slot string) (*PlanDocument, error) {
	row, err := r.queries.GetMealPlan(ctx, plan_db.GetMealPlanParams{UserID: userID, Slot: slot})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s plan for user %s: %w", slot, userID, err)
	}

	var doc PlanDocument
	if err := json.Unmarshal([]byte(row.Data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s plan for user %s: %w", slot, userID, err)
	}
	return &doc, nil
}

// Rotate copies the stored current-week document verbatim into the previous
// slot and writes doc as the new current, all inside one transaction.
func (r *PlanRepository) Rotate(ctx context.Context, userID string, doc PlanDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal plan document: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin plan rotation: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)

	cur, err := q.GetMealPlan(ctx, plan_db.GetMealPlanParams{UserID: userID, Slot: planSlotCurrent})
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read current plan during rotation: %w", err)
	}
	if err == nil {
		if err := q.UpsertMealPlan(ctx, plan_db.UpsertMealPlanParams{
			UserID:    userID,
			Slot:      planSlotPrevious,
			WeekKey:   cur.WeekKey,
			Data:      cur.Data,
			CreatedAt: cur.CreatedAt,
		}); err != nil {
			return fmt.Errorf("failed to copy current plan to previous: %w", err)
		}
	}

	if err := q.UpsertMealPlan(ctx, plan_db.UpsertMealPlanParams{
		UserID:    userID,
		Slot:      planSlotCurrent,
		WeekKey:   doc.WeekKey,
		Data:      string(data),
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to write new current plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan rotation: %w", err)
	}
	return nil
}

// ListUserIDs returns every user with a stored current-week plan.
func (r *PlanRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.queries.ListPlanUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan user IDs: %w", err)
	}
	return ids, nil
}
