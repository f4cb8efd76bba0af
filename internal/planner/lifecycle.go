package planner

import (
	"context"
	"fmt"

	"nutriplan/internal/logger"
)

// NotificationScheduler is the outbound hook for reminder scheduling. It
// only consumes finished plans; the engine has no dependency back on it.
type NotificationScheduler interface {
	PlanActivated(ctx context.Context, plan *Plan) error
}

// Lifecycle enforces the at-most-one-active-plan-per-subject invariant over
// the persisted plan collection. Unlike generation, lifecycle correctness is
// never allowed to silently degrade: every persistence failure is surfaced
// to the caller.
type Lifecycle struct {
	repo      *Repository
	scheduler NotificationScheduler
	log       *logger.Logger
}

// NewLifecycle creates a Lifecycle. scheduler may be nil.
func NewLifecycle(repo *Repository, scheduler NotificationScheduler, log *logger.Logger) *Lifecycle {
	return &Lifecycle{
		repo:      repo,
		scheduler: scheduler,
		log:       log.With("component", "lifecycle"),
	}
}

// Create persists a freshly generated plan directly in the active state,
// deactivating any other plan of the subject in the same transaction.
func (l *Lifecycle) Create(ctx context.Context, plan *Plan) error {
	if err := l.repo.CreateActive(ctx, plan); err != nil {
		return err
	}
	l.log.Info("plan created and activated", "plan_id", plan.ID, "subject_id", plan.SubjectID)
	l.notifyActivated(ctx, plan)
	return nil
}

// Activate makes the target plan the subject's single active plan. The
// bulk deactivate and the target update run in one storage transaction, so
// a crash or a racing activation cannot leave two active plans.
func (l *Lifecycle) Activate(ctx context.Context, subjectID, planID string) (*Plan, error) {
	plan, err := l.repo.ActivateExclusive(ctx, subjectID, planID)
	if err != nil {
		return nil, err
	}
	l.log.Info("plan activated", "plan_id", planID, "subject_id", subjectID)
	l.notifyActivated(ctx, plan)
	return plan, nil
}

// Deactivate marks a plan inactive. No uniqueness invariant is at risk.
func (l *Lifecycle) Deactivate(ctx context.Context, planID string) (*Plan, error) {
	plan, err := l.repo.SetInactive(ctx, planID)
	if err != nil {
		return nil, err
	}
	l.log.Info("plan deactivated", "plan_id", planID)
	return plan, nil
}

// Delete removes a plan. If it was active, the subject is deliberately left
// with no active plan; nothing is auto-promoted.
func (l *Lifecycle) Delete(ctx context.Context, planID string) error {
	if err := l.repo.Delete(ctx, planID); err != nil {
		return err
	}
	l.log.Info("plan deleted", "plan_id", planID)
	return nil
}

// ReplaceMeal swaps one slot meal of one day, recomputes that day's
// aggregates and persists the updated document. The aggregate is never
// trusted as already-correct after a partial edit.
func (l *Lifecycle) ReplaceMeal(ctx context.Context, plan *Plan, dayIndex int, slot Slot, meal Meal) error {
	day, ok := plan.DayAt(dayIndex)
	if !ok {
		return fmt.Errorf("%w: day %d of %d", ErrInvalidDayIndex, dayIndex, plan.Duration())
	}
	if !IsValidSlot(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}

	meal.Slot = slot
	day.Meals[slot] = meal
	RecomputeDay(day)

	if err := l.repo.UpdateDocument(ctx, plan); err != nil {
		return err
	}
	l.log.Info("meal replaced", "plan_id", plan.ID, "day", dayIndex, "slot", slot, "meal", meal.Name)
	return nil
}

func (l *Lifecycle) notifyActivated(ctx context.Context, plan *Plan) {
	if l.scheduler == nil {
		return
	}
	if err := l.scheduler.PlanActivated(ctx, plan); err != nil {
		// Reminder scheduling is downstream of the invariant; a failure
		// here must not roll back a committed activation.
		l.log.Warn("failed to schedule notifications", "plan_id", plan.ID, "error", err)
	}
}
