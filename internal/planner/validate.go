package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlanCandidate is a structurally validated plan document, before ids,
// dates and aggregates are attached by the orchestrator.
type PlanCandidate struct {
	Title       string
	Description string
	Days        []DailyPlan
}

// ValidatePlanDocument checks a sanitized JSON document against the plan
// contract for the requested duration. Hard rules are checked in order and
// fail fast with a ValidationError; cosmetic nutrition gaps are soft and
// only produce warnings, with missing numerics defaulted to zero.
//
// The document is parsed into a generic tree first. The model response is
// untrusted input; nothing is deserialized directly into a typed Plan.
func ValidatePlanDocument(jsonText string, duration int) (*PlanCandidate, []string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return nil, nil, &ValidationError{Rule: "top-level shape", Detail: "document is not a JSON object"}
	}

	title := strings.TrimSpace(asString(doc["title"]))
	if title == "" {
		return nil, nil, &ValidationError{Rule: "title", Detail: "missing or empty"}
	}
	description := strings.TrimSpace(asString(doc["description"]))
	if description == "" {
		return nil, nil, &ValidationError{Rule: "description", Detail: "missing or empty"}
	}

	rawDays, ok := doc["days"].([]interface{})
	if !ok {
		return nil, nil, &ValidationError{Rule: "days", Detail: "missing or not an array"}
	}
	// A model that gets tired and emits fewer days must be rejected, not
	// silently truncated-accepted.
	if len(rawDays) != duration {
		return nil, nil, &ValidationError{
			Rule:   "day count",
			Detail: fmt.Sprintf("expected %d days, got %d", duration, len(rawDays)),
		}
	}

	var warnings []string
	days := make([]DailyPlan, 0, duration)
	for i, rawDay := range rawDays {
		dayObj, ok := rawDay.(map[string]interface{})
		if !ok {
			return nil, nil, &ValidationError{
				Rule:   "day shape",
				Detail: fmt.Sprintf("day %d is not an object", i+1),
			}
		}

		day := DailyPlan{
			Day:   i + 1,
			Meals: make(map[Slot]Meal, len(RequiredSlots)),
		}
		for _, slot := range RequiredSlots {
			rawMeal, ok := dayObj[string(slot)].(map[string]interface{})
			if !ok || rawMeal == nil {
				return nil, nil, &ValidationError{
					Rule:   "slot completeness",
					Detail: fmt.Sprintf("day %d has no %s", i+1, slot),
				}
			}
			meal, mealWarnings := coerceMeal(rawMeal, slot, fmt.Sprintf("day %d %s", i+1, slot))
			day.Meals[slot] = meal
			warnings = append(warnings, mealWarnings...)
		}
		days = append(days, day)
	}

	return &PlanCandidate{Title: title, Description: description, Days: days}, warnings, nil
}

// ValidateMealDocument checks a sanitized JSON document against the
// single-meal contract used by regeneration.
func ValidateMealDocument(jsonText string, slot Slot) (Meal, []string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return Meal{}, nil, &ValidationError{Rule: "top-level shape", Detail: "document is not a JSON object"}
	}
	if strings.TrimSpace(asString(doc["name"])) == "" {
		return Meal{}, nil, &ValidationError{Rule: "name", Detail: "missing or empty"}
	}
	meal, warnings := coerceMeal(doc, slot, string(slot))
	return meal, warnings, nil
}

// coerceMeal builds a typed Meal from a generic object, defaulting missing
// or negative numeric fields to zero. Cosmetic nutrition gaps are less
// severe than structural ones, so they warn rather than fail.
func coerceMeal(raw map[string]interface{}, slot Slot, path string) (Meal, []string) {
	var warnings []string

	name := strings.TrimSpace(asString(raw["name"]))
	if name == "" {
		name = "Unnamed meal"
		warnings = append(warnings, path+": missing meal name")
	}

	calories, w := nonNegativeNumber(raw["calories"], path+" calories")
	warnings = append(warnings, w...)

	nutrition := Nutrition{}
	for _, field := range []struct {
		key string
		dst *float64
	}{
		{"protein", &nutrition.Protein},
		{"carbs", &nutrition.Carbs},
		{"fat", &nutrition.Fat},
		{"fiber", &nutrition.Fiber},
	} {
		val, w := nonNegativeNumber(raw[field.key], path+" "+field.key)
		warnings = append(warnings, w...)
		*field.dst = val
	}

	return Meal{
		Name:            name,
		Description:     strings.TrimSpace(asString(raw["description"])),
		Slot:            slot,
		Calories:        int(calories),
		PrepTime:        strings.TrimSpace(asString(raw["prep_time"])),
		Difficulty:      strings.TrimSpace(asString(raw["difficulty"])),
		Ingredients:     asStringSlice(raw["ingredients"]),
		Instructions:    asStringSlice(raw["instructions"]),
		Nutrition:       nutrition,
		Allergens:       asStringSlice(raw["allergens"]),
		KidFriendliness: int(asNumber(raw["kid_friendliness"])),
		Portability:     int(asNumber(raw["portability"])),
	}, warnings
}

func nonNegativeNumber(v interface{}, path string) (float64, []string) {
	switch val := v.(type) {
	case nil:
		return 0, []string{path + ": missing, defaulted to 0"}
	case float64:
		if val < 0 {
			return 0, []string{path + ": negative, defaulted to 0"}
		}
		return val, nil
	default:
		return 0, []string{path + ": not numeric, defaulted to 0"}
	}
}

func asNumber(v interface{}) float64 {
	if f, ok := v.(float64); ok && f > 0 {
		return f
	}
	return 0
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asStringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
