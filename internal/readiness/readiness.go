package readiness

import (
	"time"
)

// Pain is the optional pain/illness block of a daily check-in.
type Pain struct {
	Level        float64 `json:"level"` // 0-10
	BodyPart     string  `json:"bodyPart,omitempty"`
	Illness      bool    `json:"illness,omitempty"`
	GaitAffected bool    `json:"gaitAffected,omitempty"`
}

// DailyMetrics is one check-in per athlete per calendar day. Later
// submissions for the same day upsert, they never duplicate.
type DailyMetrics struct {
	ID         int       `json:"id"`
	AthleteID  string    `json:"athleteId"`
	Date       time.Time `json:"date"`
	HRV        float64   `json:"hrv"`       // ms, rMSSD style
	RestingHR  float64   `json:"restingHr"` // bpm
	SleepHours float64   `json:"sleepHours"`
	Soreness   float64   `json:"soreness"` // 0-10, higher is worse
	Stress     float64   `json:"stress"`   // 0-10, higher is worse
	Mood       float64   `json:"mood"`     // 0-10, higher is better
	Pain       *Pain     `json:"pain,omitempty"`
}

// TrainingSession is a completed session's load contribution, the raw
// history the ACWR is always recomputed from.
type TrainingSession struct {
	ID        int       `json:"id"`
	AthleteID string    `json:"athleteId"`
	Date      time.Time `json:"date"`
	Load      float64   `json:"load"` // TSS-like stress value
}

// ACWRZone buckets the acute:chronic ratio into coaching zones.
type ACWRZone string

const (
	ZoneDetraining ACWRZone = "DETRAINING"
	ZoneOptimal    ACWRZone = "OPTIMAL"
	ZoneCaution    ACWRZone = "CAUTION"
	ZoneDanger     ACWRZone = "DANGER"
	ZoneCritical   ACWRZone = "CRITICAL"
)

// ClassifyACWR is a pure step function over the ratio.
func ClassifyACWR(acwr float64) ACWRZone {
	switch {
	case acwr < 0.8:
		return ZoneDetraining
	case acwr < 1.3:
		return ZoneOptimal
	case acwr < 1.5:
		return ZoneCaution
	case acwr < 2.0:
		return ZoneDanger
	default:
		return ZoneCritical
	}
}

// LoadRecord is the derived per (athlete, date) training load state.
// Recomputation over the same session history is idempotent.
type LoadRecord struct {
	AthleteID   string    `json:"athleteId"`
	Date        time.Time `json:"date"`
	AcuteLoad   float64   `json:"acuteLoad"`
	ChronicLoad float64   `json:"chronicLoad"`
	ACWR        float64   `json:"acwr"`
	Zone        ACWRZone  `json:"zone"`
}

// RedFlag is one independently qualifying cascade trigger.
type RedFlag struct {
	Kind      string  `json:"kind"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

const (
	FlagPain      = "pain"
	FlagReadiness = "low-readiness"
	FlagSleep     = "short-sleep"
	FlagStress    = "high-stress"
	FlagIllness   = "illness"
)

// SubScores are the weighted components of the composite, kept for audit.
type SubScores struct {
	HRV      float64 `json:"hrv"`
	RHR      float64 `json:"rhr"`
	Wellness float64 `json:"wellness"`
	Sleep    float64 `json:"sleep"`
	ACWR     float64 `json:"acwr"`
}

// Assessment is the per (athlete, date) readiness output.
type Assessment struct {
	AthleteID string    `json:"athleteId"`
	Date      time.Time `json:"date"`
	Score     float64   `json:"score"` // 0-10
	SubScores SubScores `json:"subScores"`
	RedFlags  []RedFlag `json:"redFlags,omitempty"`

	// Pain carries the check-in's pain block through to the decision
	// engine and cascade, which need body part and gait involvement.
	Pain *Pain `json:"pain,omitempty"`

	// baseline deviation signals for the day
	LowHRV      bool `json:"lowHrv"`
	ElevatedRHR bool `json:"elevatedRhr"`
}

// HasFlag reports whether a flag of the given kind fired.
func (a Assessment) HasFlag(kind string) bool {
	for _, f := range a.RedFlags {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// DayOf normalizes a timestamp to its UTC calendar day, the key every
// per-day record is stored under.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
