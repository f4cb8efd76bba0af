package planner

import "time"

// Slot is a fixed meal-time category. Every day of a plan fills each
// required slot exactly once.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnack     Slot = "snack"
)

// RequiredSlots is the slot set every day of a plan must fill, in display order.
var RequiredSlots = []Slot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// IsValidSlot reports whether s is one of the required slots.
func IsValidSlot(s Slot) bool {
	for _, slot := range RequiredSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Plan duration bounds in days.
const (
	MinDurationDays = 1
	MaxDurationDays = 90
)

// Generation sources recorded on a plan for diagnostics. The shape of a
// returned plan never reveals which path produced it.
const (
	SourceOracle   = "oracle"
	SourceFallback = "fallback"
)

// Nutrition is the macronutrient sub-record of a meal, in grams.
type Nutrition struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
}

// Add returns the component-wise sum of two nutrition records.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Protein: n.Protein + o.Protein,
		Carbs:   n.Carbs + o.Carbs,
		Fat:     n.Fat + o.Fat,
		Fiber:   n.Fiber + o.Fiber,
	}
}

// Meal is the atomic unit of a plan. It is value-like: it has no identity
// outside the daily-plan slot that holds it.
type Meal struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Slot         Slot      `json:"slot"`
	Calories     int       `json:"calories"`
	PrepTime     string    `json:"prep_time"`
	Difficulty   string    `json:"difficulty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Nutrition    Nutrition `json:"nutrition"`
	Allergens    []string  `json:"allergens,omitempty"`

	// Display-only scores, never used by the engine.
	KidFriendliness int `json:"kid_friendliness,omitempty"`
	Portability     int `json:"portability,omitempty"`
}

// DailyPlan is one calendar day of a plan. TotalCalories and TotalNutrition
// are a cache over the slot meals, recomputed via RecomputeDay whenever any
// slot meal changes.
type DailyPlan struct {
	Day            int           `json:"day"`
	Date           time.Time     `json:"date"`
	Meals          map[Slot]Meal `json:"meals"`
	TotalCalories  int           `json:"total_calories"`
	TotalNutrition Nutrition     `json:"total_nutrition"`
}

// Preferences is the subject-scoped generation input. It is immutable once
// passed into a generation request and is persisted alongside the plan it
// produced.
type Preferences struct {
	Age          int               `json:"age,omitempty"`
	Allergies    []string          `json:"allergies,omitempty"`
	Dislikes     []string          `json:"dislikes,omitempty"`
	Favorites    []string          `json:"favorites,omitempty"`
	Restrictions []string          `json:"restrictions,omitempty"`
	DurationDays int               `json:"duration_days"`
	Policies     map[string]string `json:"policies,omitempty"`
}

// Plan is a generation result: an ordered sequence of daily plans covering
// exactly DurationDays contiguous days.
type Plan struct {
	ID          string      `json:"id"`
	SubjectID   string      `json:"subject_id"`
	SubjectName string      `json:"subject_name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	Preferences Preferences `json:"preferences"`
	Days        []DailyPlan `json:"days"`
	IsActive    bool        `json:"is_active"`
	Source      string      `json:"source"`
}

// Duration returns the number of days the plan covers.
func (p *Plan) Duration() int {
	return len(p.Days)
}

// TotalCalories sums the day-level calorie totals. Plan-level totals are
// computed on demand rather than cached.
func (p *Plan) TotalCalories() int {
	total := 0
	for _, day := range p.Days {
		total += day.TotalCalories
	}
	return total
}

// DayAt returns the daily plan for the given 1-based day index.
func (p *Plan) DayAt(dayIndex int) (*DailyPlan, bool) {
	if dayIndex < 1 || dayIndex > len(p.Days) {
		return nil, false
	}
	return &p.Days[dayIndex-1], true
}
