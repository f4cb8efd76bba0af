package notify

import (
	"context"

	"nutriplan/internal/logger"
	"nutriplan/internal/planner"
)

// LogScheduler is a NotificationScheduler that only logs what it would
// schedule. The real push/local reminder delivery lives outside this
// repository; this keeps the activation hook exercised end to end.
type LogScheduler struct {
	log *logger.Logger
}

// NewLogScheduler creates a LogScheduler.
func NewLogScheduler(log *logger.Logger) *LogScheduler {
	return &LogScheduler{log: log.With("component", "notify")}
}

// PlanActivated schedules meal reminders for every day of the plan.
func (s *LogScheduler) PlanActivated(ctx context.Context, plan *planner.Plan) error {
	for _, day := range plan.Days {
		s.log.Info("scheduling meal reminders",
			"plan_id", plan.ID,
			"subject_id", plan.SubjectID,
			"day", day.Day,
			"date", day.Date.Format("2006-01-02"),
			"meals", len(day.Meals))
	}
	return nil
}
