package plan

import (
	"time"
)

// WorkoutStatus is the per-workout state machine.
type WorkoutStatus string

const (
	StatusPlanned   WorkoutStatus = "PLANNED"
	StatusModified  WorkoutStatus = "MODIFIED"
	StatusCancelled WorkoutStatus = "CANCELLED"
	StatusCompleted WorkoutStatus = "COMPLETED"
)

// Action is a decision outcome, ordered by severity.
type Action string

const (
	ActionProceed         Action = "PROCEED"
	ActionReduceIntensity Action = "REDUCE_INTENSITY"
	ActionReduceVolume    Action = "REDUCE_VOLUME"
	ActionConvertToCross  Action = "CONVERT_TO_CROSS_TRAINING"
	ActionCancel          Action = "CANCEL"
)

var actionSeverity = map[Action]int{
	ActionProceed:         0,
	ActionReduceIntensity: 1,
	ActionReduceVolume:    2,
	ActionConvertToCross:  3,
	ActionCancel:          4,
}

// MoreSevere reports whether a outranks b in the severity order.
func (a Action) MoreSevere(b Action) bool {
	return actionSeverity[a] > actionSeverity[b]
}

// Known reports whether the action is part of the severity order.
func (a Action) Known() bool {
	_, ok := actionSeverity[a]
	return ok
}

// ActionsAtOrAbove lists the actions at least as severe as min, for the
// severity-filtered pending listing.
func ActionsAtOrAbove(min Action) []string {
	var actions []string
	for action := range actionSeverity {
		if action == min || action.MoreSevere(min) {
			actions = append(actions, string(action))
		}
	}
	return actions
}

// Workout is one scheduled session of the plan.
type Workout struct {
	ID          int           `json:"id"`
	AthleteID   string        `json:"athleteId"`
	Date        time.Time     `json:"date"`
	Type        string        `json:"type"` // easy, long, threshold, double-threshold, interval, ...
	Status      WorkoutStatus `json:"status"`
	DurationMin float64       `json:"durationMin"`
	DistanceKm  float64       `json:"distanceKm"`
	TargetHR    float64       `json:"targetHr"`
	Load        float64       `json:"load"` // planned stress value
	Description string        `json:"description,omitempty"`
}

// Modification links an original workout to its modified version. Once a
// coach reviews it, it is frozen; a later cascade run for the same day
// must supersede or skip, never mutate it.
type Modification struct {
	ID            int       `json:"id"`
	WorkoutID     int       `json:"workoutId"`
	AthleteID     string    `json:"athleteId"`
	Date          time.Time `json:"date"`
	Action        Action    `json:"action"`
	Reason        string    `json:"reason"`
	Original      Workout   `json:"original"`
	Modified      *Workout  `json:"modified,omitempty"`
	AutoGenerated bool      `json:"autoGenerated"`

	// NeedsManualReview marks workouts the engine is not allowed to touch
	// under the athlete's methodology; no modified version is attached.
	NeedsManualReview bool `json:"needsManualReview"`

	Reviewed  bool      `json:"reviewed"`
	Approved  *bool     `json:"approved,omitempty"`
	CoachNote string    `json:"coachNote,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
