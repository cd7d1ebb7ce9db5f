package injury

import (
	"context"
	"fmt"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/plan"
	"github.com/strideworks/coachengine/internal/readiness"
	"github.com/strideworks/coachengine/internal/telemetry/metrics"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const defaultSubstitutionWindowDays = 14

type assessmentsStore interface {
	UpsertActive(ctx context.Context, assessment Assessment) (*Assessment, bool, error)
	UpsertSubstitution(ctx context.Context, substitution Substitution) (*Substitution, error)
	AddNotification(ctx context.Context, notification Notification) (*Notification, error)
}

type planStore interface {
	WorkoutsInWindow(ctx context.Context, athleteID string, from, to time.Time) ([]plan.Workout, error)
	UpsertModification(ctx context.Context, modification plan.Modification) (*plan.Modification, bool, error)
	UpdateWorkoutStatus(ctx context.Context, workoutID int, status plan.WorkoutStatus) error
}

type notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// Result summarizes one cascade run for the check-in response.
type Result struct {
	Assessment       *Assessment `json:"assessment,omitempty"`
	OpenedNew        bool        `json:"openedNew"`
	ModifiedWorkouts int         `json:"modifiedWorkouts"`
	Substitutions    int         `json:"substitutions"`
	NotificationSent bool        `json:"notificationSent"`
	Warnings         []string    `json:"warnings,omitempty"`
}

// Cascade runs the injury side-effect pipeline: classify, open or update
// the injury record, derive the cross-training window, notify the coach.
// Record writes are critical and halt the run; notification delivery is
// best effort and never fails the cascade.
type Cascade struct {
	assessments assessmentsStore
	workouts    planStore
	notifier    notifier
	windowDays  int
	metrics     *metrics.Manager
}

func NewCascade(
	assessments assessmentsStore,
	workouts planStore,
	coachNotifier notifier,
	windowDays int,
	metricsManager *metrics.Manager,
) *Cascade {
	if windowDays <= 0 {
		windowDays = defaultSubstitutionWindowDays
	}
	return &Cascade{
		assessments: assessments,
		workouts:    workouts,
		notifier:    coachNotifier,
		windowDays:  windowDays,
		metrics:     metricsManager,
	}
}

// ShouldTrigger reports whether the day's readiness output qualifies for
// the cascade at all.
func ShouldTrigger(assessment readiness.Assessment) bool {
	return assessment.HasFlag(readiness.FlagPain) || assessment.HasFlag(readiness.FlagIllness)
}

// Run executes the pipeline for one qualifying check-in. Re-running it
// for the same day updates the existing records instead of duplicating
// them.
func (c *Cascade) Run(ctx context.Context, a athlete.Athlete, day readiness.Assessment) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "injury.cascade.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", a.ID))

	if !ShouldTrigger(day) || day.Pain == nil {
		return &Result{}, nil
	}
	c.metrics.CounterInjuryCascades.Inc()

	result := &Result{}
	pain := *day.Pain

	assessment := Assessment{
		AthleteID:  a.ID,
		Status:     StatusActive,
		Severity:   ClassifySeverity(pain.Level),
		BodyPart:   pain.BodyPart,
		PainLevel:  pain.Level,
		Phase:      PhaseAcute,
		DetectedAt: day.Date,
	}
	if pain.Illness {
		assessment.IllnessType = "general-illness"
	}

	stored, created, err := c.assessments.UpsertActive(ctx, assessment)
	if err != nil {
		return result, fmt.Errorf("upsert injury assessment: %w", err)
	}
	result.Assessment = stored
	result.OpenedNew = created

	// illness means rest, not substitution; the decision engine cancels
	// the affected sessions separately
	if !pain.Illness {
		if err := c.substituteWindow(ctx, a, day, stored, result); err != nil {
			return result, err
		}
	}

	c.notify(ctx, a, *stored, result)

	return result, nil
}

func (c *Cascade) substituteWindow(
	ctx context.Context,
	a athlete.Athlete,
	day readiness.Assessment,
	assessment *Assessment,
	result *Result,
) error {
	from := day.Date
	to := day.Date.AddDate(0, 0, c.windowDays-1)

	workouts, err := c.workouts.WorkoutsInWindow(ctx, a.ID, from, to)
	if err != nil {
		return fmt.Errorf("workouts in substitution window: %w", err)
	}

	modality := ModalityForBodyPart(assessment.BodyPart)
	reason := fmt.Sprintf("%s injury (%s), converted to %s",
		assessment.BodyPart, assessment.Severity, modality.Name)
	if assessment.BodyPart == "" {
		reason = fmt.Sprintf("injury (%s), converted to %s", assessment.Severity, modality.Name)
	}

	rules := plan.RulesetFor(a.Methodology)

	for _, workout := range workouts {
		eligible, ineligibleReason := rules.EligibleForAutoModification(workout, a)

		substitution := Convert(workout, modality)
		converted := plan.ApplyAction(plan.ActionConvertToCross, workout)
		converted.Description = fmt.Sprintf("%s: %.0f min at %.0f bpm",
			modality.Name, substitution.DurationMin, substitution.TargetHR)
		converted.Load = substitution.EquivalentLoad
		converted.Status = plan.StatusModified

		modification := plan.Modification{
			WorkoutID:     workout.ID,
			AthleteID:     a.ID,
			Date:          workout.Date,
			Action:        plan.ActionConvertToCross,
			Reason:        reason,
			Original:      workout,
			AutoGenerated: true,
			CreatedAt:     time.Now(),
		}
		if eligible {
			modification.Modified = &converted
		} else {
			modification.NeedsManualReview = true
			modification.Reason = ineligibleReason
		}

		_, applied, err := c.workouts.UpsertModification(ctx, modification)
		if err != nil {
			return fmt.Errorf("store modification for workout %d: %w", workout.ID, err)
		}
		if !applied {
			log.Debugf("modification for workout %d already reviewed, substitution skipped", workout.ID)
			continue
		}
		result.ModifiedWorkouts++

		if !eligible {
			continue
		}

		if _, err := c.assessments.UpsertSubstitution(ctx, substitution); err != nil {
			return fmt.Errorf("store substitution for workout %d: %w", workout.ID, err)
		}
		result.Substitutions++

		if err := c.workouts.UpdateWorkoutStatus(ctx, workout.ID, plan.StatusModified); err != nil {
			return fmt.Errorf("update workout %d status: %w", workout.ID, err)
		}
		c.metrics.CounterWorkoutModifications.WithLabelValues(string(plan.ActionConvertToCross)).Inc()
	}

	return nil
}

// notify is best effort: a delivery failure is logged and surfaced as a
// warning, the records already written stay.
func (c *Cascade) notify(ctx context.Context, a athlete.Athlete, assessment Assessment, result *Result) {
	notification := Notification{
		AthleteID: a.ID,
		Kind:      "injury-cascade",
		Message: fmt.Sprintf(
			"%s: %s injury assessment (%s, pain %.0f), %d workouts converted",
			a.Name, assessment.Severity, assessment.BodyPart, assessment.PainLevel, result.Substitutions,
		),
		CreatedAt: time.Now(),
	}

	var notifyErr error
	if stored, err := c.assessments.AddNotification(ctx, notification); err != nil {
		notifyErr = multierr.Append(notifyErr, fmt.Errorf("store: %w", err))
	} else {
		notification = *stored
	}

	if err := c.notifier.Notify(ctx, notification); err != nil {
		notifyErr = multierr.Append(notifyErr, fmt.Errorf("publish: %w", err))
	} else {
		result.NotificationSent = true
	}

	if notifyErr != nil {
		log.Errorf("failed to notify coach for athlete %s: %s", a.ID, notifyErr)
		c.metrics.CounterNotificationFailures.Inc()
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("coach notification failed: %s", notifyErr))
	}
}
