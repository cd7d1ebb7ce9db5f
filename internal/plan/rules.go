package plan

import (
	"strings"

	"github.com/strideworks/coachengine/internal/athlete"
)

// Ruleset encodes the methodology-specific constraints on automatic plan
// mutation. One small object per methodology instead of tag checks
// scattered through the engine.
type Ruleset interface {
	Name() string

	// EligibleForAutoModification reports whether the engine may touch
	// this workout on its own. When false, the returned reason is surfaced
	// on the manual-review flag.
	EligibleForAutoModification(workout Workout, a athlete.Athlete) (bool, string)
}

const (
	MethodologyBalanced     = "balanced"
	MethodologyHighVolume   = "high-volume"
	MethodologyEliteLactate = "elite-lactate"
)

// RulesetFor selects the ruleset by methodology tag. Unknown tags get the
// balanced rules, the most permissive and least surprising default.
func RulesetFor(methodology string) Ruleset {
	switch strings.ToLower(methodology) {
	case MethodologyHighVolume:
		return highVolumeRules{}
	case MethodologyEliteLactate:
		return eliteLactateRules{}
	default:
		return balancedRules{}
	}
}

type balancedRules struct{}

func (balancedRules) Name() string { return MethodologyBalanced }

func (balancedRules) EligibleForAutoModification(Workout, athlete.Athlete) (bool, string) {
	return true, ""
}

type highVolumeRules struct{}

func (highVolumeRules) Name() string { return MethodologyHighVolume }

// The long run is the anchor session of a high-volume block; touching it
// reshuffles the whole week, so it stays a coach decision.
func (highVolumeRules) EligibleForAutoModification(workout Workout, _ athlete.Athlete) (bool, string) {
	if workout.Type == "long" {
		return false, "long runs under a high-volume methodology require coach review"
	}
	return true, ""
}

type eliteLactateRules struct{}

func (eliteLactateRules) Name() string { return MethodologyEliteLactate }

// Double-threshold days are only auto-managed when the athlete has a
// lactate meter and explicit coach supervision. Without both, the engine
// must leave the session untouched and flag it.
func (eliteLactateRules) EligibleForAutoModification(workout Workout, a athlete.Athlete) (bool, string) {
	if workout.Type != "double-threshold" {
		return true, ""
	}
	if !a.LactateMeter {
		return false, "double-threshold session requires lactate meter availability"
	}
	if !a.CoachSupervised {
		return false, "double-threshold session requires explicit coach supervision"
	}
	return true, ""
}
