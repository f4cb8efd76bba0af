package planner

// RecomputeDay replaces the day's aggregate fields with the sum of its slot
// meals. The aggregates are a cache, not a source of truth: any caller that
// mutates a slot meal must recompute before trusting them.
func RecomputeDay(day *DailyPlan) {
	total := 0
	nutrition := Nutrition{}
	for _, meal := range day.Meals {
		total += meal.Calories
		nutrition = nutrition.Add(meal.Nutrition)
	}
	day.TotalCalories = total
	day.TotalNutrition = nutrition
}

// RecomputePlan recomputes the aggregates of every day in the plan.
func RecomputePlan(plan *Plan) {
	for i := range plan.Days {
		RecomputeDay(&plan.Days[i])
	}
}
