package shopping

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"nutriplan/internal/database"
	"nutriplan/internal/planner"
)

func testPlan() *planner.Plan {
	return &planner.Plan{
		ID:        "plan-1",
		SubjectID: "subject-1",
		Days: []planner.DailyPlan{
			{Day: 1, Meals: map[planner.Slot]planner.Meal{
				planner.SlotBreakfast: {Name: "Oats", Ingredients: []string{"rolled oats", "milk"}},
				planner.SlotLunch:     {Name: "Wrap", Ingredients: []string{"tortilla", "chicken breast", "Milk"}},
				planner.SlotDinner:    {Name: "Pasta", Ingredients: []string{"spaghetti", "  ", "tomatoes"}},
				planner.SlotSnack:     {Name: "Apple", Ingredients: []string{"apple"}},
			}},
			{Day: 2, Meals: map[planner.Slot]planner.Meal{
				planner.SlotBreakfast: {Name: "Eggs", Ingredients: []string{"eggs", "milk"}},
				planner.SlotLunch:     {Name: "Soup", Ingredients: []string{"lentils", "tomatoes"}},
				planner.SlotDinner:    {Name: "Salmon", Ingredients: []string{"salmon fillet"}},
				planner.SlotSnack:     {Name: "Yogurt", Ingredients: []string{"yogurt"}},
			}},
		},
	}
}

func TestBuildFromPlan(t *testing.T) {
	t.Run("DeduplicatesAcrossDaysAndSlots", func(t *testing.T) {
		list, err := BuildFromPlan(testPlan(), 1, 2)
		if err != nil {
			t.Fatalf("BuildFromPlan() error = %v", err)
		}

		counts := make(map[string]int)
		for _, item := range list.Items {
			counts[strings.ToLower(item)]++
		}
		if counts["milk"] != 1 {
			t.Errorf("milk appears %d times, want 1", counts["milk"])
		}
		if counts["tomatoes"] != 1 {
			t.Errorf("tomatoes appears %d times, want 1", counts["tomatoes"])
		}
		if counts[""] != 0 {
			t.Error("blank ingredient survived")
		}
		if !sort.SliceIsSorted(list.Items, func(i, j int) bool {
			return strings.ToLower(list.Items[i]) < strings.ToLower(list.Items[j])
		}) {
			t.Errorf("items are not sorted: %v", list.Items)
		}
	})

	t.Run("RespectsDayRange", func(t *testing.T) {
		list, err := BuildFromPlan(testPlan(), 2, 2)
		if err != nil {
			t.Fatalf("BuildFromPlan() error = %v", err)
		}
		for _, item := range list.Items {
			if strings.EqualFold(item, "spaghetti") {
				t.Error("day 1 ingredient leaked into a day 2 list")
			}
		}
		if list.FromDay != 2 || list.ToDay != 2 {
			t.Errorf("range recorded as %d-%d", list.FromDay, list.ToDay)
		}
	})

	t.Run("RejectsBadRanges", func(t *testing.T) {
		for _, r := range [][2]int{{0, 1}, {1, 3}, {2, 1}} {
			if _, err := BuildFromPlan(testPlan(), r[0], r[1]); !errors.Is(err, planner.ErrInvalidDayIndex) {
				t.Errorf("range %v: error = %v, want ErrInvalidDayIndex", r, err)
			}
		}
	})
}

func TestRepositorySaveReplacesPerPlan(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepository(db.SQL)
	ctx := context.Background()

	first, err := BuildFromPlan(testPlan(), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second, err := BuildFromPlan(testPlan(), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save() (replace) error = %v", err)
	}

	got, err := repo.GetByPlanID(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetByPlanID() error = %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("expected the replacement list %s, got %s", second.ID, got.ID)
	}
	if len(got.Items) != len(second.Items) {
		t.Errorf("items = %v, want %v", got.Items, second.Items)
	}

	if err := repo.DeleteByPlanID(ctx, "plan-1"); err != nil {
		t.Fatalf("DeleteByPlanID() error = %v", err)
	}
	if _, err := repo.GetByPlanID(ctx, "plan-1"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("after delete: error = %v, want ErrListNotFound", err)
	}
}
