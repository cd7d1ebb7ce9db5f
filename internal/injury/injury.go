package injury

import (
	"errors"
	"time"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusMonitoring Status = "MONITORING"
	StatusResolved   Status = "RESOLVED"
)

// ValidTransition enforces the one-directional lifecycle. ACTIVE and
// MONITORING swap freely; RESOLVED is terminal and only reachable through
// an explicit resolve action, never a timeout.
func ValidTransition(from, to Status) bool {
	switch from {
	case StatusActive:
		return to == StatusMonitoring || to == StatusResolved
	case StatusMonitoring:
		return to == StatusActive || to == StatusResolved
	default:
		return false
	}
}

type Severity string

const (
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
)

type Phase string

const (
	PhaseAcute          Phase = "ACUTE"
	PhaseSubacute       Phase = "SUBACUTE"
	PhaseReconditioning Phase = "RECONDITIONING"
)

// ClassifySeverity maps the reported pain level onto a severity tier.
func ClassifySeverity(painLevel float64) Severity {
	switch {
	case painLevel >= 8:
		return SeveritySevere
	case painLevel >= 6:
		return SeverityModerate
	default:
		return SeverityMild
	}
}

// ClassifyPhase derives the rehab phase from time since detection.
func ClassifyPhase(detectedAt, now time.Time) Phase {
	days := int(now.Sub(detectedAt).Hours() / 24)
	switch {
	case days < 7:
		return PhaseAcute
	case days < 21:
		return PhaseSubacute
	default:
		return PhaseReconditioning
	}
}

var ErrAssessmentNotFound = errors.New("injury assessment not found")

// Assessment is one injury record. At most one non-resolved assessment
// exists per athlete; a repeat trigger updates it instead of duplicating.
type Assessment struct {
	ID          int        `json:"id"`
	AthleteID   string     `json:"athleteId"`
	Status      Status     `json:"status"`
	Severity    Severity   `json:"severity"`
	BodyPart    string     `json:"bodyPart,omitempty"`
	IllnessType string     `json:"illnessType,omitempty"`
	PainLevel   float64    `json:"painLevel"`
	Phase       Phase      `json:"phase"`
	DetectedAt  time.Time  `json:"detectedAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}

// Substitution is a converted cross-training workout for one day of the
// substitution window, carrying its retained-fitness metadata.
type Substitution struct {
	ID               int       `json:"id"`
	AthleteID        string    `json:"athleteId"`
	WorkoutID        int       `json:"workoutId"`
	Date             time.Time `json:"date"`
	Modality         string    `json:"modality"`
	DurationMin      float64   `json:"durationMin"`
	DistanceKm       float64   `json:"distanceKm,omitempty"`
	TargetHR         float64   `json:"targetHr"`
	EquivalentLoad   float64   `json:"equivalentLoad"`
	FitnessRetention float64   `json:"fitnessRetention"`
}

// Notification is the fire-and-forget coach alert, persisted for the
// dashboard and published to the notifications topic. Delivery failures
// are logged and counted, never propagated to the triggering cascade.
type Notification struct {
	ID        int       `json:"id,omitempty"`
	AthleteID string    `json:"athleteId"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
