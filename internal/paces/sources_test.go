package paces

import (
	"testing"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/threshold"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacesFromMarathon_Ordering(t *testing.T) {
	paces := pacesFromMarathon(250)

	// faster paces have smaller sec/km values
	assert.Less(t, paces.Repetition, paces.Interval)
	assert.Less(t, paces.Interval, paces.Threshold)
	assert.Less(t, paces.Threshold, paces.Marathon)
	assert.Less(t, paces.Marathon, paces.EasyLo)
	assert.Less(t, paces.EasyLo, paces.EasyHi)
}

func TestCompressionFactor_ByClassification(t *testing.T) {
	elite := compressionFactor(athlete.ClassificationElite)
	advanced := compressionFactor(athlete.ClassificationAdvanced)
	recreational := compressionFactor(athlete.ClassificationRecreational)
	beginner := compressionFactor(athlete.ClassificationBeginner)

	// better trained athletes hold a pace closer to threshold
	assert.Less(t, elite, advanced)
	assert.Less(t, advanced, recreational)
	assert.Less(t, recreational, beginner)
}

func TestLactateVariant_ThresholdIsMeasuredNotDerived(t *testing.T) {
	result := &threshold.Result{
		ThresholdSpeedKmh: 14.4, // 250 sec/km
		Confidence:        threshold.ConfidenceHigh,
	}

	v, ok := lactateVariant(result, athlete.ClassificationRecreational)
	require.True(t, ok)

	assert.Equal(t, SourceLactate, v.Kind)
	assert.InDelta(t, 250, float64(v.Paces.Threshold), 0.01)
	assert.InDelta(t, 250*1.085, float64(v.Paces.Marathon), 0.01)
	assert.Equal(t, threshold.ConfidenceHigh, v.Confidence)
}

func TestCriticalSpeedFit_PerfectLine(t *testing.T) {
	// d = 4.0·t + 200 exactly
	trials := []FieldTrial{
		{DistanceMeters: 1400, DurationSeconds: 300},
		{DistanceMeters: 2600, DurationSeconds: 600},
		{DistanceMeters: 5000, DurationSeconds: 1200},
	}

	criticalSpeed, rSquared := criticalSpeedFit(trials)
	assert.InDelta(t, 4.0, criticalSpeed, 0.001)
	assert.InDelta(t, 1.0, rSquared, 0.001)
}

func TestFieldVariant_InconsistentTrials_LowConfidence(t *testing.T) {
	// wildly inconsistent pacing, the regression fit must be poor
	test := &FieldTest{
		AthleteID: "athlete-1",
		Trials: []FieldTrial{
			{DistanceMeters: 1200, DurationSeconds: 300},
			{DistanceMeters: 1000, DurationSeconds: 600},
			{DistanceMeters: 5200, DurationSeconds: 900},
			{DistanceMeters: 2000, DurationSeconds: 1200},
		},
		TakenAt: time.Now(),
	}

	v, ok := fieldVariant(test)
	require.True(t, ok)

	assert.Equal(t, threshold.ConfidenceLow, v.Confidence)
	require.NotEmpty(t, v.Warnings)
	assert.Contains(t, v.Warnings[0], "retest recommended")
}

func TestFieldVariant_SingleTrial(t *testing.T) {
	test := &FieldTest{
		AthleteID: "athlete-1",
		Trials: []FieldTrial{
			{DistanceMeters: 5000, DurationSeconds: 1200},
		},
	}

	v, ok := fieldVariant(test)
	require.True(t, ok)

	assert.Equal(t, threshold.ConfidenceLow, v.Confidence)
	require.NotEmpty(t, v.Warnings)
	assert.Contains(t, v.Warnings[0], "single-trial")

	// avg speed 4.1667 m/s, scaled down by the coarse factor
	assert.InDelta(t, 1000/(4.16667*0.93), float64(v.Paces.Threshold), 0.1)
}

func TestProfileVariant_AlwaysAvailable(t *testing.T) {
	v := profileVariant(athlete.Athlete{
		ID:             "athlete-1",
		Age:            52,
		WeeklyVolumeKm: 20,
		Classification: athlete.ClassificationBeginner,
	})

	assert.Equal(t, SourceProfile, v.Kind)
	assert.Equal(t, threshold.ConfidenceLow, v.Confidence)
	assert.Greater(t, float64(v.Paces.Marathon), 0.0)
	require.NotEmpty(t, v.Warnings)
}

func TestProfileVariant_ClassificationSpread(t *testing.T) {
	elite := profileVariant(athlete.Athlete{Classification: athlete.ClassificationElite, Age: 25, WeeklyVolumeKm: 120})
	beginner := profileVariant(athlete.Athlete{Classification: athlete.ClassificationBeginner, Age: 25, WeeklyVolumeKm: 20})

	assert.Less(t, elite.Paces.Marathon, beginner.Paces.Marathon)
}

func TestSortVariants_PriorityHierarchy(t *testing.T) {
	variants := []Variant{
		{Kind: SourceProfile},
		{Kind: SourceFieldTest},
		{Kind: SourceRace},
		{Kind: SourceLactate},
	}
	sortVariants(variants)

	assert.Equal(t, SourceRace, variants[0].Kind)
	assert.Equal(t, SourceLactate, variants[1].Kind)
	assert.Equal(t, SourceFieldTest, variants[2].Kind)
	assert.Equal(t, SourceProfile, variants[3].Kind)
}

func TestBuildZones_WithAndWithoutHR(t *testing.T) {
	paces := pacesFromMarathon(250)

	withHR := BuildZones(paces, 190)
	require.Len(t, withHR.HeartRate, 5)
	assert.Len(t, withHR.Effort, 5)
	assert.Len(t, withHR.PctMarathon, 7)
	assert.Len(t, withHR.Lactate, 3)

	z1 := withHR.HeartRate[0]
	assert.InDelta(t, 0.50*190, z1.HRLo, 0.01)
	assert.InDelta(t, 0.60*190, z1.HRHi, 0.01)

	withoutHR := BuildZones(paces, 0)
	assert.Empty(t, withoutHR.HeartRate)
	assert.Len(t, withoutHR.Effort, 5)
}
