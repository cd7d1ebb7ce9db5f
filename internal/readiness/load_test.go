package readiness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClassifyACWR_StepFunction(t *testing.T) {
	cases := []struct {
		acwr float64
		zone ACWRZone
	}{
		{0, ZoneDetraining},
		{0.79, ZoneDetraining},
		{0.8, ZoneOptimal},
		{1.0, ZoneOptimal},
		{1.29, ZoneOptimal},
		{1.3, ZoneCaution},
		{1.49, ZoneCaution},
		{1.5, ZoneDanger},
		{1.99, ZoneDanger},
		{2.0, ZoneCritical},
		{3.5, ZoneCritical},
	}
	for _, c := range cases {
		assert.Equal(t, c.zone, ClassifyACWR(c.acwr), "acwr %.2f", c.acwr)
	}
}

func day(offset int) time.Time {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func steadySessions(days int, load float64) []TrainingSession {
	sessions := make([]TrainingSession, 0, days)
	for i := 0; i < days; i++ {
		sessions = append(sessions, TrainingSession{
			AthleteID: "athlete-1",
			Date:      day(i),
			Load:      load,
		})
	}
	return sessions
}

func TestComputeLoad_SteadyTraining_OptimalZone(t *testing.T) {
	// six weeks of identical daily load, acute and chronic converge and
	// the ratio settles near 1.0
	sessions := steadySessions(42, 60)

	record := ComputeLoad("athlete-1", sessions, day(41))

	assert.InDelta(t, 1.0, record.ACWR, 0.15)
	assert.Equal(t, ZoneOptimal, record.Zone)
	assert.Greater(t, record.AcuteLoad, 0.0)
	assert.Greater(t, record.ChronicLoad, 0.0)
}

func TestComputeLoad_LoadSpike_HighACWR(t *testing.T) {
	// a light base then a sudden week of triple load
	sessions := steadySessions(35, 30)
	for i := 35; i < 42; i++ {
		sessions = append(sessions, TrainingSession{
			AthleteID: "athlete-1",
			Date:      day(i),
			Load:      120,
		})
	}

	record := ComputeLoad("athlete-1", sessions, day(41))

	assert.Greater(t, record.ACWR, 1.3)
	assert.NotEqual(t, ZoneOptimal, record.Zone)
}

func TestComputeLoad_Break_DecaysAcuteFaster(t *testing.T) {
	// steady training, then ten days completely off: missing days count
	// as zero load, so the acute average collapses below the chronic one
	sessions := steadySessions(35, 60)

	record := ComputeLoad("athlete-1", sessions, day(44))

	assert.Less(t, record.AcuteLoad, record.ChronicLoad)
	assert.Less(t, record.ACWR, 0.8)
	assert.Equal(t, ZoneDetraining, record.Zone)
}

func TestComputeLoad_Idempotent(t *testing.T) {
	sessions := steadySessions(42, 55)

	first := ComputeLoad("athlete-1", sessions, day(41))
	second := ComputeLoad("athlete-1", sessions, day(41))

	// bit-identical, no hidden accumulator
	assert.Equal(t, first, second)
}

func TestComputeLoad_NoHistory(t *testing.T) {
	record := ComputeLoad("athlete-1", nil, day(0))

	assert.Zero(t, record.AcuteLoad)
	assert.Zero(t, record.ChronicLoad)
	assert.Zero(t, record.ACWR)
	assert.Equal(t, ZoneDetraining, record.Zone)
}

func TestComputeLoad_IgnoresFutureSessions(t *testing.T) {
	sessions := steadySessions(42, 55)
	withFuture := append(append([]TrainingSession{}, sessions...), TrainingSession{
		AthleteID: "athlete-1",
		Date:      day(50),
		Load:      500,
	})

	require.Equal(t,
		ComputeLoad("athlete-1", sessions, day(41)),
		ComputeLoad("athlete-1", withFuture, day(41)),
	)
}
