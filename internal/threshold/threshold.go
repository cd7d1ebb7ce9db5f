package threshold

import (
	"errors"
	"time"
)

// ErrInsufficientData is returned when a test has too few stages to fit a curve.
var ErrInsufficientData = errors.New("insufficient data to analyze threshold test")

// Confidence tiers for derived results. Shared with the pace synthesizer.
type Confidence string

const (
	ConfidenceVeryHigh Confidence = "VERY_HIGH"
	ConfidenceHigh     Confidence = "HIGH"
	ConfidenceMedium   Confidence = "MEDIUM"
	ConfidenceLow      Confidence = "LOW"
)

// Degrade lowers a confidence tier by one step, used when cross-source
// validation finds a mismatch.
func (c Confidence) Degrade() Confidence {
	switch c {
	case ConfidenceVeryHigh:
		return ConfidenceHigh
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Stage is a single step of an incremental lactate test.
// Speed increases stage to stage, lactate generally rises with it.
type Stage struct {
	SpeedKmh  float64 `json:"speedKmh"`
	HeartRate float64 `json:"heartRate"`
	Lactate   float64 `json:"lactate"`
}

// Test holds the raw stages of a lab lactate test. Tests are immutable once
// analyzed; a newer test supersedes an older one, it never mutates it.
type Test struct {
	ID        int       `json:"id"`
	AthleteID string    `json:"athleteId"`
	Stages    []Stage   `json:"stages"`
	TakenAt   time.Time `json:"takenAt"`

	// ManualThresholdStage, when set, is a coach-flagged stage index that
	// always takes precedence over the computed threshold point.
	ManualThresholdStage *int `json:"manualThresholdStage,omitempty"`
}

// Result is the derived threshold, owned by its test and recomputed whenever
// the test's raw stages change.
type Result struct {
	ThresholdSpeedKmh float64    `json:"thresholdSpeedKmh"`
	ThresholdHR       float64    `json:"thresholdHr"`
	Confidence        Confidence `json:"confidence"`
	RSquared          float64    `json:"rSquared"`
	Method            string     `json:"method"`
	Warnings          []string   `json:"warnings,omitempty"`
}
