package app

import (
	"context"
	"log"
	"time"

	"recipebox/internal/planner"
)

// StartWeeklyScheduler runs the Monday regeneration job in a goroutine until
// ctx is cancelled. Each firing regenerates the plan and shopping list for
// every user with a stored plan.
func (a *App) StartWeeklyScheduler(ctx context.Context) {
	go func() {
		for {
			next := planner.NextMonday(time.Now())
			wait := time.Until(next)
			log.Printf("Weekly plan job scheduled for %s (in %s)", next.Format("2006-01-02"), wait.Round(time.Minute))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			a.RegenerateAll(ctx)
		}
	}()
}

// RegenerateAll regenerates plans and shopping lists for every known user.
func (a *App) RegenerateAll(ctx context.Context) {
	userIDs, err := a.plans.ListUserIDs(ctx)
	if err != nil {
		log.Printf("Warning: weekly job could not list users: %v", err)
		return
	}

	for _, userID := range userIDs {
		if plan := a.EnsureWeeklyPlan(ctx, userID); plan != nil {
			a.BuildShoppingList(ctx, userID)
		}
	}
	log.Printf("Weekly plan job finished for %d users", len(userIDs))
}
