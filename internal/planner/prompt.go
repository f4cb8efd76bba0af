package planner

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

//go:embed plan_prompt.md
var planPrompt string

//go:embed meal_prompt.md
var mealPrompt string

// phasedGuidanceThreshold is the duration, in days, above which the plan
// prompt adds tiered variety guidance for the later weeks.
const phasedGuidanceThreshold = 7

// noneSpecified is the explicit fallback phrase for absent preference fields.
const noneSpecified = "None specified"

type promptPolicy struct {
	Name  string
	Value string
}

type planPromptData struct {
	SubjectName  string
	Duration     int
	Age          string
	Allergies    string
	Dislikes     string
	Favorites    string
	Restrictions string
	Policies     []promptPolicy
	Phased       bool
}

type mealPromptData struct {
	SubjectName    string
	Slot           Slot
	Day            int
	Age            string
	Allergies      string
	Dislikes       string
	Favorites      string
	Restrictions   string
	Policies       []promptPolicy
	CurrentMeal    string
	TargetCalories int
}

// BuildPlanPrompt renders the full-plan generation request. It is a pure
// function of its inputs; the same preference rendering is reused by
// BuildMealPrompt with a narrower output contract.
func BuildPlanPrompt(prefs Preferences, subjectName string, duration int) (string, error) {
	data := planPromptData{
		SubjectName:  displayName(subjectName),
		Duration:     duration,
		Age:          ageOrNone(prefs.Age),
		Allergies:    joinOrNone(prefs.Allergies),
		Dislikes:     joinOrNone(prefs.Dislikes),
		Favorites:    joinOrNone(prefs.Favorites),
		Restrictions: joinOrNone(prefs.Restrictions),
		Policies:     sortedPolicies(prefs.Policies),
		Phased:       duration > phasedGuidanceThreshold,
	}
	return renderPrompt("plan", planPrompt, data)
}

// BuildMealPrompt renders the single-meal regeneration request. currentMeal
// and targetCalories come from the meal being replaced so the substitute
// stays nutritionally comparable.
func BuildMealPrompt(prefs Preferences, subjectName string, slot Slot, dayIndex int, currentMeal string, targetCalories int) (string, error) {
	data := mealPromptData{
		SubjectName:    displayName(subjectName),
		Slot:           slot,
		Day:            dayIndex,
		Age:            ageOrNone(prefs.Age),
		Allergies:      joinOrNone(prefs.Allergies),
		Dislikes:       joinOrNone(prefs.Dislikes),
		Favorites:      joinOrNone(prefs.Favorites),
		Restrictions:   joinOrNone(prefs.Restrictions),
		Policies:       sortedPolicies(prefs.Policies),
		CurrentMeal:    currentMeal,
		TargetCalories: targetCalories,
	}
	return renderPrompt("meal", mealPrompt, data)
}

func renderPrompt(name, text string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s prompt template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

func joinOrNone(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return noneSpecified
	}
	return strings.Join(cleaned, ", ")
}

func ageOrNone(age int) string {
	if age <= 0 {
		return noneSpecified
	}
	return fmt.Sprintf("%d years", age)
}

func displayName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "the subject"
	}
	return name
}

// sortedPolicies keeps policy rendering deterministic across calls.
func sortedPolicies(policies map[string]string) []promptPolicy {
	out := make([]promptPolicy, 0, len(policies))
	for name, value := range policies {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out = append(out, promptPolicy{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
