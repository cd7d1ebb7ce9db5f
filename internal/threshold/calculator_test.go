package threshold_test

import (
	"errors"
	"testing"

	"github.com/strideworks/coachengine/internal/threshold"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanLabTest builds an incremental test whose lactate follows a smooth
// cubic rise, the way a textbook step test looks.
func cleanLabTest() threshold.Test {
	stages := make([]threshold.Stage, 0, 8)
	for i := 0; i < 8; i++ {
		speed := 10.0 + float64(i)
		d := speed - 10.0
		stages = append(stages, threshold.Stage{
			SpeedKmh:  speed,
			HeartRate: 120 + 8*float64(i),
			Lactate:   0.8 + 0.02*d*d*d,
		})
	}
	return threshold.Test{
		AthleteID: "athlete-1",
		Stages:    stages,
	}
}

func TestCalculator_Analyze_CleanTest(t *testing.T) {
	calc := threshold.NewCalculator()

	result, err := calc.Analyze(cleanLabTest())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.GreaterOrEqual(t, result.RSquared, 0.98)
	assert.Equal(t, threshold.ConfidenceVeryHigh, result.Confidence)
	assert.Equal(t, "dmax-mod", result.Method)

	// threshold must fall strictly within the tested speed range
	assert.Greater(t, result.ThresholdSpeedKmh, 10.0)
	assert.Less(t, result.ThresholdSpeedKmh, 17.0)

	// HR interpolated from the surrounding stages
	assert.Greater(t, result.ThresholdHR, 120.0)
	assert.Less(t, result.ThresholdHR, 176.0)
}

func TestCalculator_Analyze_TooFewStages(t *testing.T) {
	calc := threshold.NewCalculator()

	test := cleanLabTest()
	test.Stages = test.Stages[:3]

	result, err := calc.Analyze(test)
	require.Error(t, err)
	assert.True(t, errors.Is(err, threshold.ErrInsufficientData))
	assert.Nil(t, result)
}

func TestCalculator_Analyze_ErraticLactate_LowConfidence(t *testing.T) {
	calc := threshold.NewCalculator()

	// a zigzag no cubic can follow: the fit must be flagged unreliable,
	// but the result is still returned
	test := threshold.Test{
		AthleteID: "athlete-1",
		Stages: []threshold.Stage{
			{SpeedKmh: 10, HeartRate: 120, Lactate: 1.0},
			{SpeedKmh: 11, HeartRate: 130, Lactate: 5.0},
			{SpeedKmh: 12, HeartRate: 140, Lactate: 1.0},
			{SpeedKmh: 13, HeartRate: 150, Lactate: 5.0},
			{SpeedKmh: 14, HeartRate: 160, Lactate: 1.0},
			{SpeedKmh: 15, HeartRate: 170, Lactate: 5.0},
		},
	}

	result, err := calc.Analyze(test)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Less(t, result.RSquared, 0.90)
	assert.Equal(t, threshold.ConfidenceLow, result.Confidence)
	assert.NotEmpty(t, result.Warnings)
}

func TestCalculator_Analyze_ManualStageOverride(t *testing.T) {
	calc := threshold.NewCalculator()

	test := cleanLabTest()
	manualStage := 5
	test.ManualThresholdStage = &manualStage

	result, err := calc.Analyze(test)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "manual", result.Method)
	assert.Equal(t, test.Stages[manualStage].SpeedKmh, result.ThresholdSpeedKmh)
	assert.Equal(t, test.Stages[manualStage].HeartRate, result.ThresholdHR)
	assert.Equal(t, threshold.ConfidenceVeryHigh, result.Confidence)
}

func TestCalculator_Analyze_NonMonotonicWarning(t *testing.T) {
	calc := threshold.NewCalculator()

	test := cleanLabTest()
	// dip lactate near the top end, keep the rest of the curve intact
	test.Stages[6].Lactate = test.Stages[5].Lactate - 0.3

	result, err := calc.Analyze(test)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "non-monotonic lactate")
}

func TestCalculator_Analyze_NonIncreasingSpeeds(t *testing.T) {
	calc := threshold.NewCalculator()

	test := cleanLabTest()
	test.Stages[3].SpeedKmh = test.Stages[2].SpeedKmh

	_, err := calc.Analyze(test)
	require.Error(t, err)
	assert.True(t, errors.Is(err, threshold.ErrInsufficientData))
}
