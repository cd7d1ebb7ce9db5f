package paces

import (
	"time"

	"github.com/strideworks/coachengine/internal/threshold"
)

// Pace is expressed in seconds per kilometer.
type Pace float64

// Minutes returns the pace as fractional minutes per km, for display.
func (p Pace) Minutes() float64 {
	return float64(p) / 60
}

// CorePaces are the five training paces everything else derives from.
type CorePaces struct {
	Marathon   Pace `json:"marathon"`
	Threshold  Pace `json:"threshold"`
	EasyLo     Pace `json:"easyLo"`
	EasyHi     Pace `json:"easyHi"`
	Interval   Pace `json:"interval"`
	Repetition Pace `json:"repetition"`
}

// SourceKind tags where a pace set came from. The priority hierarchy
// is race > lactate > field > profile.
type SourceKind string

const (
	SourceRace      SourceKind = "RACE_PERFORMANCE"
	SourceLactate   SourceKind = "LACTATE_TEST"
	SourceFieldTest SourceKind = "FIELD_TEST"
	SourceProfile   SourceKind = "PROFILE_ESTIMATE"
	SourceNone      SourceKind = ""
)

// FieldTrial is one timed effort of a critical-velocity style field test.
type FieldTrial struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// FieldTest is an HR-only / watch-only test used when no lab data exists.
type FieldTest struct {
	ID        int          `json:"id"`
	AthleteID string       `json:"athleteId"`
	Trials    []FieldTrial `json:"trials"`
	AvgHR     float64      `json:"avgHr"`
	TakenAt   time.Time    `json:"takenAt"`
}

// ValidationResult describes the cross-source marathon pace comparison.
type ValidationResult struct {
	Checked     bool    `json:"checked"`
	MismatchPct float64 `json:"mismatchPct"`
	OK          bool    `json:"ok"`
}

// ZoneSet bundles the four parallel zone systems.
type ZoneSet struct {
	Effort      []PaceZone `json:"effort"`
	PctMarathon []PaceZone `json:"pctMarathon"`
	Lactate     []PaceZone `json:"lactate"`
	HeartRate   []HRZone   `json:"heartRate,omitempty"`
}

type PaceZone struct {
	Zone   int    `json:"zone"`
	Name   string `json:"name"`
	PaceLo Pace   `json:"paceLo"` // faster bound; 0 means unbounded
	PaceHi Pace   `json:"paceHi"` // slower bound; 0 means unbounded
}

type HRZone struct {
	Zone  int     `json:"zone"`
	Name  string  `json:"name"`
	HRLo  float64 `json:"hrLo"`
	HRHi  float64 `json:"hrHi"`
	PctLo float64 `json:"pctLo"`
	PctHi float64 `json:"pctHi"`
}

// Selection is the full pace/zone projection for an athlete. It is always
// recomputed from its inputs (tests, races, profile), never stored as
// authoritative state.
type Selection struct {
	AthleteID       string               `json:"athleteId"`
	Paces           CorePaces            `json:"paces"`
	PrimarySource   SourceKind           `json:"primarySource"`
	SecondarySource SourceKind           `json:"secondarySource,omitempty"`
	Confidence      threshold.Confidence `json:"confidence"`
	Zones           ZoneSet              `json:"zones"`
	Validation      ValidationResult     `json:"validation"`
	Warnings        []string             `json:"warnings,omitempty"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}
