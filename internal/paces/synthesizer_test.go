package paces

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/threshold"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAthletes struct {
	athlete *athlete.Athlete
	race    *athlete.RaceResult
}

func (f *fakeAthletes) Get(_ context.Context, id string) (*athlete.Athlete, error) {
	if f.athlete == nil || f.athlete.ID != id {
		return nil, athlete.ErrAthleteNotFound
	}
	return f.athlete, nil
}

func (f *fakeAthletes) LatestRace(context.Context, string) (*athlete.RaceResult, error) {
	if f.race == nil {
		return nil, athlete.ErrNoRaceResults
	}
	return f.race, nil
}

type fakeThresholds struct {
	result *threshold.Result
}

func (f *fakeThresholds) LatestByAthlete(context.Context, string) (*threshold.Test, *threshold.Result, error) {
	if f.result == nil {
		return nil, nil, threshold.ErrTestNotFound
	}
	return &threshold.Test{}, f.result, nil
}

type fakeFieldTests struct {
	test *FieldTest
}

func (f *fakeFieldTests) LatestByAthlete(context.Context, string) (*FieldTest, error) {
	if f.test == nil {
		return nil, ErrFieldTestNotFound
	}
	return f.test, nil
}

func testAthlete() *athlete.Athlete {
	return &athlete.Athlete{
		ID:             "athlete-1",
		Name:           "Mina",
		Age:            32,
		WeeklyVolumeKm: 60,
		MaxHR:          192,
		RestingHR:      48,
		Classification: athlete.ClassificationRecreational,
		Active:         true,
	}
}

func recentRace() *athlete.RaceResult {
	// 5K in 19:00 is the VDOT 50 row
	return &athlete.RaceResult{
		ID:              1,
		AthleteID:       "athlete-1",
		DistanceMeters:  5000,
		DurationSeconds: 1140,
		RacedAt:         time.Now().Add(-14 * 24 * time.Hour),
	}
}

func TestSynthesize_RacePrimary_SourcesAgree(t *testing.T) {
	synth := NewSynthesizer(
		&fakeAthletes{athlete: testAthlete(), race: recentRace()},
		// threshold speed 14.0 km/h implies a marathon pace that agrees
		// with the race within the mismatch threshold
		&fakeThresholds{result: &threshold.Result{
			ThresholdSpeedKmh: 14.0,
			Confidence:        threshold.ConfidenceHigh,
		}},
		&fakeFieldTests{},
		0.15,
	)

	selection, err := synth.Synthesize(context.Background(), "athlete-1", SourceNone)
	require.NoError(t, err)

	assert.Equal(t, SourceRace, selection.PrimarySource)
	assert.Equal(t, SourceLactate, selection.SecondarySource)
	// race is recent, confidence is bumped and survives validation
	assert.Equal(t, threshold.ConfidenceVeryHigh, selection.Confidence)

	require.True(t, selection.Validation.Checked)
	assert.True(t, selection.Validation.OK)
	assert.Less(t, selection.Validation.MismatchPct, 0.15)

	// VDOT 50 marathon pace
	assert.InDelta(t, 10494.0/42.195, float64(selection.Paces.Marathon), 0.5)

	// HR present on profile, all four zone systems populated
	assert.Len(t, selection.Zones.HeartRate, 5)
	assert.Len(t, selection.Zones.Lactate, 3)
}

func TestSynthesize_SourceMismatch_DegradesConfidence(t *testing.T) {
	synth := NewSynthesizer(
		&fakeAthletes{athlete: testAthlete(), race: recentRace()},
		// threshold speed 12.0 km/h implies a far slower marathon than
		// the race does, well past the 15% gate
		&fakeThresholds{result: &threshold.Result{
			ThresholdSpeedKmh: 12.0,
			Confidence:        threshold.ConfidenceHigh,
		}},
		&fakeFieldTests{},
		0.15,
	)

	selection, err := synth.Synthesize(context.Background(), "athlete-1", SourceNone)
	require.NoError(t, err)

	assert.Equal(t, SourceRace, selection.PrimarySource)
	require.True(t, selection.Validation.Checked)
	assert.False(t, selection.Validation.OK)

	// degraded one tier from VERY_HIGH
	assert.Equal(t, threshold.ConfidenceHigh, selection.Confidence)

	found := false
	for _, w := range selection.Warnings {
		if strings.Contains(w, "disagree") {
			found = true
		}
	}
	assert.True(t, found, "expected a mismatch warning, got %v", selection.Warnings)
}

func TestSynthesize_PreferredSourceOverride(t *testing.T) {
	synth := NewSynthesizer(
		&fakeAthletes{athlete: testAthlete(), race: recentRace()},
		&fakeThresholds{result: &threshold.Result{
			ThresholdSpeedKmh: 14.0,
			Confidence:        threshold.ConfidenceHigh,
		}},
		&fakeFieldTests{},
		0.15,
	)

	selection, err := synth.Synthesize(context.Background(), "athlete-1", SourceLactate)
	require.NoError(t, err)

	assert.Equal(t, SourceLactate, selection.PrimarySource)
	// measured threshold pace, 3600/14.0
	assert.InDelta(t, 257.14, float64(selection.Paces.Threshold), 0.1)
}

func TestSynthesize_PreferredSourceUnavailable_FallsBack(t *testing.T) {
	synth := NewSynthesizer(
		&fakeAthletes{athlete: testAthlete(), race: recentRace()},
		&fakeThresholds{},
		&fakeFieldTests{},
		0.15,
	)

	selection, err := synth.Synthesize(context.Background(), "athlete-1", SourceFieldTest)
	require.NoError(t, err)

	assert.Equal(t, SourceRace, selection.PrimarySource)
	require.NotEmpty(t, selection.Warnings)
	assert.Contains(t, selection.Warnings[0], "fell back")
}

func TestSynthesize_ProfileOnly(t *testing.T) {
	synth := NewSynthesizer(
		&fakeAthletes{athlete: testAthlete()},
		&fakeThresholds{},
		&fakeFieldTests{},
		0.15,
	)

	selection, err := synth.Synthesize(context.Background(), "athlete-1", SourceNone)
	require.NoError(t, err)

	assert.Equal(t, SourceProfile, selection.PrimarySource)
	assert.Equal(t, threshold.ConfidenceLow, selection.Confidence)
	assert.Equal(t, SourceNone, selection.SecondarySource)
	assert.False(t, selection.Validation.Checked)
}

func TestSynthesize_AthleteNotFound(t *testing.T) {
	synth := NewSynthesizer(&fakeAthletes{}, &fakeThresholds{}, &fakeFieldTests{}, 0.15)

	_, err := synth.Synthesize(context.Background(), "ghost", SourceNone)
	require.Error(t, err)
	assert.True(t, errors.Is(err, athlete.ErrAthleteNotFound))
}
