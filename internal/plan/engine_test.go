package plan

import (
	"context"
	"testing"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/readiness"
	"github.com/strideworks/coachengine/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePlanStore struct {
	workouts      []Workout
	reviewed      map[int]bool
	modifications []Modification
	statusUpdates map[int]WorkoutStatus
}

func newFakePlanStore(workouts ...Workout) *fakePlanStore {
	return &fakePlanStore{
		workouts:      workouts,
		reviewed:      make(map[int]bool),
		statusUpdates: make(map[int]WorkoutStatus),
	}
}

func (f *fakePlanStore) UpcomingWorkouts(_ context.Context, athleteID string, from time.Time, limit int) ([]Workout, error) {
	var upcoming []Workout
	for _, w := range f.workouts {
		if w.AthleteID != athleteID || w.Date.Before(from) {
			continue
		}
		upcoming = append(upcoming, w)
		if len(upcoming) == limit {
			break
		}
	}
	return upcoming, nil
}

func (f *fakePlanStore) UpsertModification(_ context.Context, modification Modification) (*Modification, bool, error) {
	if f.reviewed[modification.WorkoutID] {
		return nil, false, nil
	}
	modification.ID = len(f.modifications) + 1
	f.modifications = append(f.modifications, modification)
	return &modification, true, nil
}

func (f *fakePlanStore) UpdateWorkoutStatus(_ context.Context, workoutID int, status WorkoutStatus) error {
	f.statusUpdates[workoutID] = status
	return nil
}

func balancedAthlete() athlete.Athlete {
	return athlete.Athlete{
		ID:          "athlete-1",
		Methodology: MethodologyBalanced,
		Active:      true,
	}
}

func plannedWorkout(id int, dayOffset int, workoutType string) Workout {
	return Workout{
		ID:          id,
		AthleteID:   "athlete-1",
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset),
		Type:        workoutType,
		Status:      StatusPlanned,
		DurationMin: 60,
		DistanceKm:  12,
		TargetHR:    150,
		Load:        70,
	}
}

func assessmentForDay(score float64, flags ...readiness.RedFlag) readiness.Assessment {
	return readiness.Assessment{
		AthleteID: "athlete-1",
		Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Score:     score,
		RedFlags:  flags,
	}
}

func TestDecide_RuleTable(t *testing.T) {
	optimal := readiness.LoadRecord{ACWR: 1.0, Zone: readiness.ZoneOptimal}

	t.Run("good day proceeds", func(t *testing.T) {
		action, _ := Decide(assessmentForDay(8.5), optimal)
		assert.Equal(t, ActionProceed, action)
	})

	t.Run("illness cancels", func(t *testing.T) {
		action, _ := Decide(
			assessmentForDay(8.5, readiness.RedFlag{Kind: readiness.FlagIllness}),
			optimal,
		)
		assert.Equal(t, ActionCancel, action)
	})

	t.Run("critical load cancels", func(t *testing.T) {
		action, _ := Decide(assessmentForDay(8.5), readiness.LoadRecord{ACWR: 2.2, Zone: readiness.ZoneCritical})
		assert.Equal(t, ActionCancel, action)
	})

	t.Run("pain with gait involvement cancels", func(t *testing.T) {
		assessment := assessmentForDay(8.5, readiness.RedFlag{Kind: readiness.FlagPain, Value: 6})
		assessment.Pain = &readiness.Pain{Level: 6, GaitAffected: true}
		action, _ := Decide(assessment, optimal)
		assert.Equal(t, ActionCancel, action)
	})

	t.Run("pain without gait converts to cross-training", func(t *testing.T) {
		assessment := assessmentForDay(8.5, readiness.RedFlag{Kind: readiness.FlagPain, Value: 6})
		assessment.Pain = &readiness.Pain{Level: 6, BodyPart: "achilles"}
		action, _ := Decide(assessment, optimal)
		assert.Equal(t, ActionConvertToCross, action)
	})

	t.Run("danger load reduces volume", func(t *testing.T) {
		action, _ := Decide(assessmentForDay(8.5), readiness.LoadRecord{ACWR: 1.8, Zone: readiness.ZoneDanger})
		assert.Equal(t, ActionReduceVolume, action)
	})

	t.Run("caution load reduces volume", func(t *testing.T) {
		action, _ := Decide(assessmentForDay(8.5), readiness.LoadRecord{ACWR: 1.35, Zone: readiness.ZoneCaution})
		assert.Equal(t, ActionReduceVolume, action)
	})

	t.Run("moderate readiness dip reduces intensity", func(t *testing.T) {
		action, _ := Decide(assessmentForDay(6.0), optimal)
		assert.Equal(t, ActionReduceIntensity, action)
	})

	t.Run("low hrv signal reduces intensity", func(t *testing.T) {
		assessment := assessmentForDay(7.5)
		assessment.LowHRV = true
		action, _ := Decide(assessment, optimal)
		assert.Equal(t, ActionReduceIntensity, action)
	})
}

func TestEngine_Run_DangerACWR_ReducesNextThreeWorkouts(t *testing.T) {
	store := newFakePlanStore(
		plannedWorkout(1, 0, "easy"),
		plannedWorkout(2, 1, "interval"),
		plannedWorkout(3, 2, "easy"),
		plannedWorkout(4, 3, "long"),
	)
	engine := NewEngine(store, metrics.NewTestManager())

	decisions, err := engine.Run(
		context.Background(),
		balancedAthlete(),
		assessmentForDay(8.0),
		readiness.LoadRecord{ACWR: 1.8, Zone: readiness.ZoneDanger},
	)
	require.NoError(t, err)

	// exactly the next three workouts, the fourth untouched
	require.Len(t, decisions, 3)
	require.Len(t, store.modifications, 3)
	for _, m := range store.modifications {
		assert.Equal(t, ActionReduceVolume, m.Action)
		require.NotNil(t, m.Modified)
		assert.InDelta(t, m.Original.DistanceKm*0.7, m.Modified.DistanceKm, 0.001)
		assert.True(t, m.AutoGenerated)
	}
	assert.Equal(t, StatusModified, store.statusUpdates[1])
	assert.Equal(t, StatusModified, store.statusUpdates[3])
	_, touched := store.statusUpdates[4]
	assert.False(t, touched)
}

func TestEngine_Run_GoodDay_NoModifications(t *testing.T) {
	store := newFakePlanStore(plannedWorkout(1, 0, "easy"))
	engine := NewEngine(store, metrics.NewTestManager())

	decisions, err := engine.Run(
		context.Background(),
		balancedAthlete(),
		assessmentForDay(8.5),
		readiness.LoadRecord{ACWR: 1.0, Zone: readiness.ZoneOptimal},
	)
	require.NoError(t, err)

	assert.Empty(t, decisions)
	assert.Empty(t, store.modifications)
}

func TestEngine_Run_Illness_CancelsWorkouts(t *testing.T) {
	store := newFakePlanStore(plannedWorkout(1, 0, "threshold"))
	engine := NewEngine(store, metrics.NewTestManager())

	decisions, err := engine.Run(
		context.Background(),
		balancedAthlete(),
		assessmentForDay(7.0, readiness.RedFlag{Kind: readiness.FlagIllness}),
		readiness.LoadRecord{ACWR: 1.0, Zone: readiness.ZoneOptimal},
	)
	require.NoError(t, err)

	require.Len(t, decisions, 1)
	assert.Equal(t, ActionCancel, decisions[0].Action)
	assert.Equal(t, StatusCancelled, store.statusUpdates[1])
}

func TestEngine_Run_EliteDoubleThreshold_FlagsForManualReview(t *testing.T) {
	store := newFakePlanStore(plannedWorkout(1, 0, "double-threshold"))
	engine := NewEngine(store, metrics.NewTestManager())

	a := balancedAthlete()
	a.Methodology = MethodologyEliteLactate
	a.LactateMeter = false

	decisions, err := engine.Run(
		context.Background(),
		a,
		assessmentForDay(5.0),
		readiness.LoadRecord{ACWR: 1.35, Zone: readiness.ZoneCaution},
	)
	require.NoError(t, err)

	require.Len(t, decisions, 1)
	assert.True(t, decisions[0].ManualReview)

	require.Len(t, store.modifications, 1)
	assert.True(t, store.modifications[0].NeedsManualReview)
	assert.Nil(t, store.modifications[0].Modified)

	// the workout itself stays untouched
	assert.Empty(t, store.statusUpdates)
}

func TestEngine_Run_SkipsReviewedModifications(t *testing.T) {
	store := newFakePlanStore(plannedWorkout(1, 0, "easy"))
	store.reviewed[1] = true
	engine := NewEngine(store, metrics.NewTestManager())

	decisions, err := engine.Run(
		context.Background(),
		balancedAthlete(),
		assessmentForDay(8.0),
		readiness.LoadRecord{ACWR: 1.8, Zone: readiness.ZoneDanger},
	)
	require.NoError(t, err)

	require.Len(t, decisions, 1)
	assert.Equal(t, ActionProceed, decisions[0].Action)
	assert.Empty(t, store.modifications)
	assert.Empty(t, store.statusUpdates)
}

func TestApplyAction(t *testing.T) {
	workout := plannedWorkout(1, 0, "easy")

	reducedVolume := ApplyAction(ActionReduceVolume, workout)
	assert.InDelta(t, 42, reducedVolume.DurationMin, 0.001)
	assert.InDelta(t, 8.4, reducedVolume.DistanceKm, 0.001)
	assert.Equal(t, StatusModified, reducedVolume.Status)

	reducedIntensity := ApplyAction(ActionReduceIntensity, workout)
	assert.InDelta(t, 138, reducedIntensity.TargetHR, 0.001)
	assert.Equal(t, workout.DistanceKm, reducedIntensity.DistanceKm)

	cancelled := ApplyAction(ActionCancel, workout)
	assert.Zero(t, cancelled.Load)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestAction_MoreSevere(t *testing.T) {
	assert.True(t, ActionCancel.MoreSevere(ActionProceed))
	assert.True(t, ActionConvertToCross.MoreSevere(ActionReduceVolume))
	assert.True(t, ActionReduceVolume.MoreSevere(ActionReduceIntensity))
	assert.False(t, ActionProceed.MoreSevere(ActionCancel))
	assert.False(t, ActionCancel.MoreSevere(ActionCancel))
}

func TestActionsAtOrAbove(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"CONVERT_TO_CROSS_TRAINING", "CANCEL"},
		ActionsAtOrAbove(ActionConvertToCross),
	)
	assert.ElementsMatch(t, []string{"CANCEL"}, ActionsAtOrAbove(ActionCancel))
	assert.Len(t, ActionsAtOrAbove(ActionProceed), 5)
}
