package shopping

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"nutriplan/internal/planner"

	"github.com/google/uuid"
)

// BuildFromPlan consolidates the ingredients of the plan's days fromDay
// through toDay (1-based, inclusive) into a deduplicated, sorted list.
// Ingredients are compared case-insensitively; the first spelling seen wins.
func BuildFromPlan(plan *planner.Plan, fromDay, toDay int) (*List, error) {
	if fromDay < 1 || toDay > plan.Duration() || fromDay > toDay {
		return nil, fmt.Errorf("%w: days %d-%d of %d", planner.ErrInvalidDayIndex, fromDay, toDay, plan.Duration())
	}

	seen := make(map[string]string)
	for d := fromDay; d <= toDay; d++ {
		day, _ := plan.DayAt(d)
		for _, slot := range planner.RequiredSlots {
			for _, ingredient := range day.Meals[slot].Ingredients {
				ingredient = strings.TrimSpace(ingredient)
				if ingredient == "" {
					continue
				}
				key := strings.ToLower(ingredient)
				if _, ok := seen[key]; !ok {
					seen[key] = ingredient
				}
			}
		}
	}

	items := make([]string, 0, len(seen))
	for _, ingredient := range seen {
		items = append(items, ingredient)
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i]) < strings.ToLower(items[j])
	})

	return &List{
		ID:        uuid.NewString(),
		SubjectID: plan.SubjectID,
		PlanID:    plan.ID,
		FromDay:   fromDay,
		ToDay:     toDay,
		Items:     items,
		CreatedAt: time.Now().UTC(),
	}, nil
}
