package planner

import (
	"context"
	"fmt"
	"time"

	"nutriplan/internal/llm"
	"nutriplan/internal/logger"
	"nutriplan/internal/shared"

	"github.com/google/uuid"
)

// Sampling knobs per call type: broader for full-plan generation, tighter
// for single-meal regeneration.
var (
	planGenConfig = llm.GenerationConfig{Temperature: 0.9, TopP: 0.95, TopK: 40, MaxOutputTokens: 8192}
	mealGenConfig = llm.GenerationConfig{Temperature: 0.4, TopP: 0.8, TopK: 20, MaxOutputTokens: 1024}
)

const defaultOracleTimeout = 30 * time.Second

// MetricsRecorder receives per-call execution metadata. Recording failures
// are logged and ignored; telemetry never blocks generation.
type MetricsRecorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// Orchestrator sequences prompt building, the model-oracle call,
// sanitization and validation, falling back to the deterministic synthesizer
// on any failure. From the caller's point of view generation always
// succeeds; the fallback is an explicit, logged degraded mode.
//
// The orchestrator performs no persistence and mutates no shared state.
// Callers invoke the aggregator and the lifecycle manager afterwards.
type Orchestrator struct {
	textGen       llm.TextGenerator
	metrics       MetricsRecorder
	log           *logger.Logger
	oracleTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// NewOrchestrator creates an Orchestrator. metrics may be nil; a
// non-positive oracleTimeout selects the default.
func NewOrchestrator(textGen llm.TextGenerator, metrics MetricsRecorder, log *logger.Logger, oracleTimeout time.Duration) *Orchestrator {
	if oracleTimeout <= 0 {
		oracleTimeout = defaultOracleTimeout
	}
	return &Orchestrator{
		textGen:       textGen,
		metrics:       metrics,
		log:           log.With("component", "orchestrator"),
		oracleTimeout: oracleTimeout,
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}
}

// Generate produces a complete plan for the subject. The only error it
// returns is ErrInvalidDuration, rejected before any oracle call; every
// oracle, sanitize or validation failure is converted into the fallback
// path and still yields a plan.
func (o *Orchestrator) Generate(ctx context.Context, subjectID, subjectName string, prefs Preferences, duration int) (*Plan, error) {
	if duration < MinDurationDays || duration > MaxDurationDays {
		return nil, ErrInvalidDuration
	}
	prefs.DurationDays = duration

	start := o.now()
	source := SourceOracle
	var usage shared.TokenUsage

	candidate, resp, err := o.generatePlanCandidate(ctx, prefs, subjectName, duration)
	if err != nil {
		o.log.Warn("plan generation degraded to fallback",
			"subject_id", subjectID, "duration", duration, "reason", err.Error())
		source = SourceFallback
		candidate = SynthesizeFallbackPlan(prefs, subjectName, duration)
	} else {
		usage = resp.Usage
	}

	plan := o.assemblePlan(candidate, subjectID, subjectName, prefs, source)
	o.recordMeta("PlanGenerator", usage, o.now().Sub(start), source)

	o.log.Info("plan generated",
		"plan_id", plan.ID, "subject_id", subjectID, "days", plan.Duration(), "source", source)
	return plan, nil
}

// RegenerateMeal produces a replacement meal for one slot of an existing
// plan. On total failure it returns the built-in per-slot default carrying
// over the original meal's calorie count so downstream aggregates stay
// meaningful. The plan itself is not mutated; the caller applies the meal
// and recomputes the day.
func (o *Orchestrator) RegenerateMeal(ctx context.Context, plan *Plan, dayIndex int, slot Slot, prefs Preferences, subjectName string) (Meal, error) {
	day, ok := plan.DayAt(dayIndex)
	if !ok {
		return Meal{}, fmt.Errorf("%w: day %d of %d", ErrInvalidDayIndex, dayIndex, plan.Duration())
	}
	if !IsValidSlot(slot) {
		return Meal{}, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	current := day.Meals[slot]

	start := o.now()
	source := SourceOracle
	var usage shared.TokenUsage

	meal, resp, err := o.regenerateMealCandidate(ctx, prefs, subjectName, slot, dayIndex, current)
	if err != nil {
		o.log.Warn("meal regeneration degraded to default meal",
			"plan_id", plan.ID, "day", dayIndex, "slot", slot, "reason", err.Error())
		source = SourceFallback
		meal = DefaultMealForSlot(slot, current.Calories)
	} else {
		usage = resp.Usage
	}
	meal.Slot = slot

	o.recordMeta("MealRegenerator", usage, o.now().Sub(start), source)
	return meal, nil
}

func (o *Orchestrator) generatePlanCandidate(ctx context.Context, prefs Preferences, subjectName string, duration int) (*PlanCandidate, llm.ContentResponse, error) {
	prompt, err := BuildPlanPrompt(prefs, subjectName, duration)
	if err != nil {
		return nil, llm.ContentResponse{}, err
	}

	resp, err := o.callOracle(ctx, prompt, planGenConfig)
	if err != nil {
		return nil, resp, err
	}

	jsonText, err := SanitizeResponse(resp.Content)
	if err != nil {
		return nil, resp, err
	}

	candidate, warnings, err := ValidatePlanDocument(jsonText, duration)
	if err != nil {
		return nil, resp, err
	}
	for _, w := range warnings {
		o.log.Debug("plan candidate warning", "warning", w)
	}
	return candidate, resp, nil
}

func (o *Orchestrator) regenerateMealCandidate(ctx context.Context, prefs Preferences, subjectName string, slot Slot, dayIndex int, current Meal) (Meal, llm.ContentResponse, error) {
	prompt, err := BuildMealPrompt(prefs, subjectName, slot, dayIndex, current.Name, current.Calories)
	if err != nil {
		return Meal{}, llm.ContentResponse{}, err
	}

	resp, err := o.callOracle(ctx, prompt, mealGenConfig)
	if err != nil {
		return Meal{}, resp, err
	}

	jsonText, err := SanitizeResponse(resp.Content)
	if err != nil {
		return Meal{}, resp, err
	}

	meal, warnings, err := ValidateMealDocument(jsonText, slot)
	if err != nil {
		return Meal{}, resp, err
	}
	for _, w := range warnings {
		o.log.Debug("meal candidate warning", "warning", w)
	}
	return meal, resp, nil
}

// callOracle wraps the model call with the configured timeout. A timeout is
// treated identically to any other oracle failure.
func (o *Orchestrator) callOracle(ctx context.Context, prompt string, cfg llm.GenerationConfig) (llm.ContentResponse, error) {
	octx, cancel := context.WithTimeout(ctx, o.oracleTimeout)
	defer cancel()

	resp, err := o.textGen.GenerateContent(octx, prompt, cfg)
	if err != nil {
		return resp, fmt.Errorf("oracle call failed: %w", err)
	}
	return resp, nil
}

// assemblePlan turns a validated candidate into a complete plan: identity,
// timestamps, per-day dates and recomputed aggregates.
func (o *Orchestrator) assemblePlan(candidate *PlanCandidate, subjectID, subjectName string, prefs Preferences, source string) *Plan {
	createdAt := o.now()
	startDate := time.Date(createdAt.Year(), createdAt.Month(), createdAt.Day(), 0, 0, 0, 0, createdAt.Location())

	plan := &Plan{
		ID:          o.newID(),
		SubjectID:   subjectID,
		SubjectName: subjectName,
		Title:       candidate.Title,
		Description: candidate.Description,
		CreatedAt:   createdAt,
		Preferences: prefs,
		Days:        candidate.Days,
		Source:      source,
	}
	for i := range plan.Days {
		plan.Days[i].Date = startDate.AddDate(0, 0, i)
	}
	RecomputePlan(plan)
	return plan
}

func (o *Orchestrator) recordMeta(agentName string, usage shared.TokenUsage, latency time.Duration, source string) {
	if o.metrics == nil {
		return
	}
	meta := shared.AgentMeta{
		AgentName: agentName,
		Usage:     usage,
		Latency:   latency,
		Source:    source,
	}
	if err := o.metrics.RecordMeta(meta); err != nil {
		o.log.Warn("failed to record execution metric", "agent", agentName, "error", err)
	}
}
