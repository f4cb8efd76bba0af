package shopping

import "time"

// List is a consolidated shopping list derived from one plan's ingredients.
type List struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	PlanID    string    `json:"plan_id"`
	FromDay   int       `json:"from_day"`
	ToDay     int       `json:"to_day"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}
