package strength

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("strength session not found")

// Session is one logged strength workout for a single exercise.
type Session struct {
	ID        int       `json:"id"`
	AthleteID string    `json:"athleteId"`
	Exercise  string    `json:"exercise"`
	Date      time.Time `json:"date"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	LoadKg    float64   `json:"loadKg"`
}

// Epley1RM estimates the one-rep max from a load and rep count.
func Epley1RM(loadKg float64, reps int) float64 {
	if reps <= 1 {
		return loadKg
	}
	return loadKg * (1 + float64(reps)/30)
}

// Volume is the session's total rep tonnage proxy, sets x reps.
func (s Session) Volume() int {
	return s.Sets * s.Reps
}

// Estimated1RM is the session's Epley estimate.
func (s Session) Estimated1RM() float64 {
	return Epley1RM(s.LoadKg, s.Reps)
}

type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendStable    Trend = "STABLE"
	TrendDeclining Trend = "DECLINING"
)

type Recommendation string

const (
	RecommendContinue  Recommendation = "CONTINUE"
	RecommendVariation Recommendation = "VARIATION"
	RecommendDeload    Recommendation = "DELOAD"
)

// Deload is the prescribed reduced week for one exercise, with the
// resulting volume cut kept for display and audit.
type Deload struct {
	Sets               int     `json:"sets"`
	Reps               int     `json:"reps"`
	LoadKg             float64 `json:"loadKg"`
	VolumeReductionPct float64 `json:"volumeReductionPct"`
}

// Analysis is the progression verdict for one exercise over its trailing
// session window.
type Analysis struct {
	AthleteID        string         `json:"athleteId"`
	Exercise         string         `json:"exercise"`
	Sessions         int            `json:"sessions"`
	SpanDays         int            `json:"spanDays"`
	Trend            Trend          `json:"trend"`
	First1RM         float64        `json:"first1Rm"`
	Last1RM          float64        `json:"last1Rm"`
	LoadProgressed   bool           `json:"loadProgressed"`
	RepsProgressed   bool           `json:"repsProgressed"`
	Plateau          bool           `json:"plateau"`
	Recommendation   Recommendation `json:"recommendation"`
	Reason           string         `json:"reason"`
	Deload           *Deload        `json:"deload,omitempty"`
	InsufficientData bool           `json:"insufficientData,omitempty"`
}
