package planner

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlanJSON(t *testing.T, days int) string {
	t.Helper()

	dayDocs := make([]map[string]interface{}, 0, days)
	for d := 1; d <= days; d++ {
		day := map[string]interface{}{"day": d}
		for _, slot := range RequiredSlots {
			day[string(slot)] = map[string]interface{}{
				"name":        fmt.Sprintf("Day %d %s", d, slot),
				"description": "Something the family actually eats",
				"calories":    450,
				"protein":     20.0,
				"carbs":       40.0,
				"fat":         15.0,
				"fiber":       5.0,
				"ingredients": []string{"eggs", "bread"},
			}
		}
		dayDocs = append(dayDocs, day)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title":       "Test Plan",
		"description": "A plan for testing",
		"days":        dayDocs,
	})
	require.NoError(t, err)
	return string(payload)
}

func TestValidatePlanDocument(t *testing.T) {
	t.Run("AcceptsWellFormedPlan", func(t *testing.T) {
		candidate, warnings, err := ValidatePlanDocument(validPlanJSON(t, 3), 3)
		require.NoError(t, err)
		assert.Empty(t, warnings)

		assert.Equal(t, "Test Plan", candidate.Title)
		require.Len(t, candidate.Days, 3)
		for i, day := range candidate.Days {
			assert.Equal(t, i+1, day.Day)
			assert.Len(t, day.Meals, len(RequiredSlots))
		}
		assert.Equal(t, 450, candidate.Days[1].Meals[SlotLunch].Calories)
		assert.InDelta(t, 20.0, candidate.Days[1].Meals[SlotLunch].Nutrition.Protein, 0.001)
	})

	t.Run("RejectsNonObjectDocument", func(t *testing.T) {
		_, _, err := ValidatePlanDocument(`["not", "a", "plan"]`, 3)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "top-level shape", valErr.Rule)
	})

	t.Run("RejectsMissingTitle", func(t *testing.T) {
		_, _, err := ValidatePlanDocument(`{"title": "  ", "description": "x", "days": []}`, 0)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "title", valErr.Rule)
	})

	t.Run("RejectsShortDayArray", func(t *testing.T) {
		_, _, err := ValidatePlanDocument(validPlanJSON(t, 5), 7)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "day count", valErr.Rule)
		assert.Contains(t, valErr.Detail, "expected 7 days, got 5")
	})

	t.Run("RejectsDayMissingSlot", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(validPlanJSON(t, 2)), &doc))
		days := doc["days"].([]interface{})
		delete(days[1].(map[string]interface{}), string(SlotDinner))
		payload, err := json.Marshal(doc)
		require.NoError(t, err)

		_, _, vErr := ValidatePlanDocument(string(payload), 2)
		var valErr *ValidationError
		require.ErrorAs(t, vErr, &valErr)
		assert.Equal(t, "slot completeness", valErr.Rule)
		assert.Contains(t, valErr.Detail, "day 2 has no dinner")
	})

	t.Run("DefaultsMissingNumericsWithWarnings", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(validPlanJSON(t, 1)), &doc))
		breakfast := doc["days"].([]interface{})[0].(map[string]interface{})[string(SlotBreakfast)].(map[string]interface{})
		delete(breakfast, "protein")
		breakfast["calories"] = "lots"
		payload, err := json.Marshal(doc)
		require.NoError(t, err)

		candidate, warnings, vErr := ValidatePlanDocument(string(payload), 1)
		require.NoError(t, vErr)

		meal := candidate.Days[0].Meals[SlotBreakfast]
		assert.Equal(t, 0, meal.Calories)
		assert.Zero(t, meal.Nutrition.Protein)
		assert.Contains(t, warnings, "day 1 breakfast protein: missing, defaulted to 0")
		assert.Contains(t, warnings, "day 1 breakfast calories: not numeric, defaulted to 0")
	})

	t.Run("NormalizesDayIndexFromPosition", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(validPlanJSON(t, 2)), &doc))
		// The model numbered both days "1"; position wins.
		for _, rawDay := range doc["days"].([]interface{}) {
			rawDay.(map[string]interface{})["day"] = 1
		}
		payload, err := json.Marshal(doc)
		require.NoError(t, err)

		candidate, _, vErr := ValidatePlanDocument(string(payload), 2)
		require.NoError(t, vErr)
		assert.Equal(t, 1, candidate.Days[0].Day)
		assert.Equal(t, 2, candidate.Days[1].Day)
	})
}

func TestValidateMealDocument(t *testing.T) {
	t.Run("AcceptsWellFormedMeal", func(t *testing.T) {
		meal, warnings, err := ValidateMealDocument(`{
			"name": "Tuna Pasta Salad",
			"description": "Quick cold lunch",
			"calories": 430,
			"protein": 28,
			"carbs": 45,
			"fat": 12,
			"fiber": 4,
			"ingredients": ["tuna", "pasta"],
			"instructions": ["Cook pasta", "Mix"]
		}`, SlotLunch)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, "Tuna Pasta Salad", meal.Name)
		assert.Equal(t, SlotLunch, meal.Slot)
		assert.Equal(t, 430, meal.Calories)
	})

	t.Run("RejectsMissingName", func(t *testing.T) {
		_, _, err := ValidateMealDocument(`{"calories": 400}`, SlotDinner)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "name", valErr.Rule)
	})

	t.Run("NegativeNumericsDefaultToZero", func(t *testing.T) {
		meal, warnings, err := ValidateMealDocument(`{"name": "Odd Soup", "calories": -200}`, SlotDinner)
		require.NoError(t, err)
		assert.Equal(t, 0, meal.Calories)
		assert.Contains(t, warnings, "dinner calories: negative, defaulted to 0")
	})
}
