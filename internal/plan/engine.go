package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/readiness"
	"github.com/strideworks/coachengine/internal/telemetry/metrics"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// decisionHorizonWorkouts is how many upcoming sessions a load or
// readiness driven decision touches. The injury cascade has its own,
// longer window.
const decisionHorizonWorkouts = 3

// score below which a non-flagged day still gets an intensity reduction
const moderateDipScore = 6.5

type workoutsStore interface {
	UpcomingWorkouts(ctx context.Context, athleteID string, from time.Time, limit int) ([]Workout, error)
	UpsertModification(ctx context.Context, modification Modification) (*Modification, bool, error)
	UpdateWorkoutStatus(ctx context.Context, workoutID int, status WorkoutStatus) error
}

// Decision is the outcome of one engine run over one workout.
type Decision struct {
	Workout      Workout       `json:"workout"`
	Action       Action        `json:"action"`
	Reason       string        `json:"reason"`
	Modification *Modification `json:"modification,omitempty"`
	ManualReview bool          `json:"manualReview"`
}

// Engine decides what happens to upcoming workouts given the day's
// readiness output. It never touches reviewed modifications and defers to
// methodology rules before changing anything.
type Engine struct {
	repo    workoutsStore
	metrics *metrics.Manager
}

func NewEngine(repo workoutsStore, metricsManager *metrics.Manager) *Engine {
	return &Engine{
		repo:    repo,
		metrics: metricsManager,
	}
}

// Decide maps the day's readiness output onto a single action and reason.
// Pure, so the rule table is testable without storage.
func Decide(assessment readiness.Assessment, load readiness.LoadRecord) (Action, string) {
	switch {
	case assessment.HasFlag(readiness.FlagIllness):
		return ActionCancel, "illness reported, full rest until symptoms clear"
	case load.Zone == readiness.ZoneCritical:
		return ActionCancel, fmt.Sprintf("training load ratio critical (%.2f)", load.ACWR)
	case painWithGait(assessment):
		return ActionCancel, "pain with gait involvement, running stopped"
	case assessment.HasFlag(readiness.FlagPain):
		return ActionConvertToCross, "pain reported, converting to low-impact cross-training"
	case load.Zone == readiness.ZoneDanger:
		return ActionReduceVolume, fmt.Sprintf("training load ratio in danger zone (%.2f)", load.ACWR)
	case load.Zone == readiness.ZoneCaution:
		return ActionReduceVolume, fmt.Sprintf("training load ratio elevated (%.2f)", load.ACWR)
	case assessment.Score < moderateDipScore || assessment.LowHRV || assessment.ElevatedRHR:
		return ActionReduceIntensity, fmt.Sprintf("readiness dip (score %.1f)", assessment.Score)
	default:
		return ActionProceed, ""
	}
}

func painWithGait(assessment readiness.Assessment) bool {
	return assessment.HasFlag(readiness.FlagPain) &&
		assessment.Pain != nil && assessment.Pain.GaitAffected
}

// Run applies the decision to the athlete's upcoming workouts and records
// the resulting modifications. Reviewed modifications are left alone.
func (e *Engine) Run(
	ctx context.Context,
	a athlete.Athlete,
	assessment readiness.Assessment,
	load readiness.LoadRecord,
) (_ []Decision, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plan.engine.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", a.ID))

	action, reason := Decide(assessment, load)
	if action == ActionProceed {
		return nil, nil
	}

	// cross-training conversion belongs to the injury cascade; the engine
	// only handles in-plan reductions and cancellations here
	if action == ActionConvertToCross {
		return nil, nil
	}

	workouts, err := e.repo.UpcomingWorkouts(ctx, a.ID, assessment.Date, decisionHorizonWorkouts)
	if err != nil {
		return nil, fmt.Errorf("upcoming workouts: %w", err)
	}

	rules := RulesetFor(a.Methodology)

	var decisions []Decision
	for _, workout := range workouts {
		decision, err := e.applyToWorkout(ctx, workout, a, rules, action, reason)
		if err != nil {
			return decisions, err
		}
		decisions = append(decisions, *decision)
	}

	return decisions, nil
}

func (e *Engine) applyToWorkout(
	ctx context.Context,
	workout Workout,
	a athlete.Athlete,
	rules Ruleset,
	action Action,
	reason string,
) (*Decision, error) {
	decision := &Decision{
		Workout: workout,
		Action:  action,
		Reason:  reason,
	}

	eligible, ineligibleReason := rules.EligibleForAutoModification(workout, a)

	modification := Modification{
		WorkoutID:     workout.ID,
		AthleteID:     a.ID,
		Date:          workout.Date,
		Action:        action,
		Reason:        reason,
		Original:      workout,
		AutoGenerated: true,
		CreatedAt:     time.Now(),
	}

	if !eligible {
		modification.NeedsManualReview = true
		modification.Reason = ineligibleReason
		decision.ManualReview = true
		decision.Reason = ineligibleReason
	} else {
		modified := ApplyAction(action, workout)
		modification.Modified = &modified
	}

	stored, applied, err := e.repo.UpsertModification(ctx, modification)
	if err != nil {
		return nil, fmt.Errorf("store modification for workout %d: %w", workout.ID, err)
	}
	if !applied {
		// an already reviewed modification exists for this workout/day
		log.Debugf("modification for workout %d already reviewed, skipped", workout.ID)
		decision.Action = ActionProceed
		return decision, nil
	}
	decision.Modification = stored

	if eligible {
		status := StatusModified
		if action == ActionCancel {
			status = StatusCancelled
		}
		if err := e.repo.UpdateWorkoutStatus(ctx, workout.ID, status); err != nil {
			return nil, fmt.Errorf("update workout %d status: %w", workout.ID, err)
		}
		e.metrics.CounterWorkoutModifications.WithLabelValues(string(action)).Inc()
	}

	return decision, nil
}

// ApplyAction produces the modified version of a workout. Pure.
func ApplyAction(action Action, workout Workout) Workout {
	modified := workout

	switch action {
	case ActionReduceIntensity:
		modified.TargetHR = workout.TargetHR * 0.92
		modified.Load = workout.Load * 0.85
		modified.Status = StatusModified
		modified.Description = appendNote(workout.Description, "intensity reduced")
	case ActionReduceVolume:
		modified.DurationMin = workout.DurationMin * 0.7
		modified.DistanceKm = workout.DistanceKm * 0.7
		modified.Load = workout.Load * 0.7
		modified.Status = StatusModified
		modified.Description = appendNote(workout.Description, "volume reduced")
	case ActionCancel:
		modified.DurationMin = 0
		modified.DistanceKm = 0
		modified.Load = 0
		modified.Status = StatusCancelled
		modified.Description = appendNote(workout.Description, "cancelled, rest day")
	}

	return modified
}

func appendNote(description, note string) string {
	if description == "" {
		return note
	}
	return description + " (" + note + ")"
}
