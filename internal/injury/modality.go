package injury

import (
	"strings"

	"github.com/strideworks/coachengine/internal/plan"
)

// Modality is one row of the static cross-training equivalency table.
type Modality struct {
	Name             string  `json:"name"`
	FitnessRetention float64 `json:"fitnessRetention"` // fraction of run fitness preserved
	TSSMultiplier    float64 `json:"tssMultiplier"`    // stress scaling vs running
	HRAdjustment     float64 `json:"hrAdjustment"`     // bpm offset vs run target HR
	TimeMultiplier   float64 `json:"timeMultiplier"`   // duration scaling vs running
	DistanceRatio    float64 `json:"distanceRatio"`    // modality km per run km, 0 if not distance based
}

// FallbackModality is the fail-closed substitution used whenever a
// requested modality is not in the table.
const FallbackModality = "continuous-moderate-effort"

var modalityTable = map[string]Modality{
	"deep-water-running": {
		Name:             "deep-water-running",
		FitnessRetention: 0.85,
		TSSMultiplier:    0.75,
		HRAdjustment:     -10,
		TimeMultiplier:   1.1,
	},
	"pool-swim": {
		Name:             "pool-swim",
		FitnessRetention: 0.70,
		TSSMultiplier:    0.65,
		HRAdjustment:     -15,
		TimeMultiplier:   0.9,
	},
	"stationary-bike": {
		Name:             "stationary-bike",
		FitnessRetention: 0.80,
		TSSMultiplier:    0.70,
		HRAdjustment:     -10,
		TimeMultiplier:   1.2,
		DistanceRatio:    3.0,
	},
	"elliptical": {
		Name:             "elliptical",
		FitnessRetention: 0.75,
		TSSMultiplier:    0.70,
		HRAdjustment:     -8,
		TimeMultiplier:   1.0,
	},
	FallbackModality: {
		Name:             FallbackModality,
		FitnessRetention: 0.60,
		TSSMultiplier:    0.60,
		HRAdjustment:     -20,
		TimeMultiplier:   1.0,
	},
}

// LookupModality fails closed: an unknown name yields the generic
// moderate-effort fallback, never an error.
func LookupModality(name string) Modality {
	if m, ok := modalityTable[name]; ok {
		return m
	}
	return modalityTable[FallbackModality]
}

// ModalityForBodyPart picks the substitution modality by injury location.
// Foot and lower-leg loading injuries go fully non-impact; knee issues
// avoid deep knee flexion; everything else keeps aerobic load on the bike.
func ModalityForBodyPart(bodyPart string) Modality {
	switch {
	case containsAny(bodyPart, "plantar", "achilles", "calf", "foot", "shin"):
		return LookupModality("deep-water-running")
	case containsAny(bodyPart, "knee", "patell"):
		return LookupModality("pool-swim")
	case containsAny(bodyPart, "hip", "back", "hamstring", "glute"):
		return LookupModality("elliptical")
	case bodyPart == "":
		return LookupModality(FallbackModality)
	default:
		return LookupModality("stationary-bike")
	}
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Convert derives the cross-training substitution for one workout using
// the modality's equivalency factors.
func Convert(workout plan.Workout, modality Modality) Substitution {
	sub := Substitution{
		AthleteID:        workout.AthleteID,
		WorkoutID:        workout.ID,
		Date:             workout.Date,
		Modality:         modality.Name,
		DurationMin:      workout.DurationMin * modality.TimeMultiplier,
		TargetHR:         workout.TargetHR + modality.HRAdjustment,
		EquivalentLoad:   workout.Load * modality.TSSMultiplier,
		FitnessRetention: modality.FitnessRetention,
	}
	if modality.DistanceRatio > 0 {
		sub.DistanceKm = workout.DistanceKm * modality.DistanceRatio
	}
	if sub.TargetHR < 0 {
		sub.TargetHR = 0
	}
	return sub
}
