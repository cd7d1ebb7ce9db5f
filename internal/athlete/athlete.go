package athlete

import "time"

// Classification buckets athletes by competitive level. It drives the
// lactate-to-race-pace compression factor and the profile pace heuristic.
type Classification string

const (
	ClassificationElite        Classification = "ELITE"
	ClassificationAdvanced     Classification = "ADVANCED"
	ClassificationRecreational Classification = "RECREATIONAL"
	ClassificationBeginner     Classification = "BEGINNER"
)

type Athlete struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Age              int            `json:"age"`
	WeeklyVolumeKm   float64        `json:"weeklyVolumeKm"`
	TrainingAgeYears float64        `json:"trainingAgeYears"`
	MaxHR            float64        `json:"maxHr"`
	RestingHR        float64        `json:"restingHr"`
	Classification   Classification `json:"classification"`
	Methodology      string         `json:"methodology"`
	LactateMeter     bool           `json:"lactateMeter"`
	CoachSupervised  bool           `json:"coachSupervised"`
	Active           bool           `json:"active"`
}

// RaceResult is a recorded race performance, the highest-priority
// source for pace synthesis.
type RaceResult struct {
	ID              int       `json:"id"`
	AthleteID       string    `json:"athleteId"`
	DistanceMeters  float64   `json:"distanceMeters"`
	DurationSeconds int       `json:"durationSeconds"`
	RacedAt         time.Time `json:"racedAt"`
}
