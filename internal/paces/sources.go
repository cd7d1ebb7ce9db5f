package paces

import (
	"fmt"
	"math"
	"sort"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/threshold"
)

// Variant is one candidate pace set with its own provenance and confidence.
// Source selection is a total order over variants, so the tie-break rules
// stay auditable instead of being buried in nested conditionals.
type Variant struct {
	Kind       SourceKind
	Confidence threshold.Confidence
	Paces      CorePaces
	Warnings   []string
}

var sourceRank = map[SourceKind]int{
	SourceRace:      0,
	SourceLactate:   1,
	SourceFieldTest: 2,
	SourceProfile:   3,
}

// Less orders variants by the source priority hierarchy.
func Less(a, b Variant) bool {
	return sourceRank[a.Kind] < sourceRank[b.Kind]
}

func sortVariants(variants []Variant) {
	sort.SliceStable(variants, func(i, j int) bool {
		return Less(variants[i], variants[j])
	})
}

// compressionFactor maps the athlete classification to the lactate-threshold
// to marathon-pace compression. Better trained athletes race closer to
// their threshold.
func compressionFactor(class athlete.Classification) float64 {
	switch class {
	case athlete.ClassificationElite:
		return 1.045
	case athlete.ClassificationAdvanced:
		return 1.065
	case athlete.ClassificationRecreational:
		return 1.085
	default:
		return 1.105
	}
}

// pacesFromMarathon expands a marathon pace into the remaining core paces.
func pacesFromMarathon(marathon Pace) CorePaces {
	return CorePaces{
		Marathon:   marathon,
		Threshold:  marathon * 0.94,
		EasyLo:     marathon * 1.15,
		EasyHi:     marathon * 1.30,
		Interval:   marathon * 0.88,
		Repetition: marathon * 0.82,
	}
}

// raceVariant derives paces from the most recent race performance.
func raceVariant(race *athlete.RaceResult) (Variant, bool) {
	if race == nil {
		return Variant{}, false
	}
	vdot := CalculateVDOT(race.DistanceMeters, race.DurationSeconds)
	if vdot == 0 {
		return Variant{}, false
	}
	return Variant{
		Kind:       SourceRace,
		Confidence: threshold.ConfidenceHigh,
		Paces:      pacesFromMarathon(marathonPaceForVDOT(vdot)),
	}, true
}

// lactateVariant derives paces from the lab threshold result via the
// individualized ratio method.
func lactateVariant(result *threshold.Result, class athlete.Classification) (Variant, bool) {
	if result == nil || result.ThresholdSpeedKmh <= 0 {
		return Variant{}, false
	}

	thresholdPace := Pace(3600 / result.ThresholdSpeedKmh)
	marathon := thresholdPace * Pace(compressionFactor(class))

	paces := pacesFromMarathon(marathon)
	paces.Threshold = thresholdPace // measured, not derived

	confidence := result.Confidence
	warnings := append([]string(nil), result.Warnings...)

	return Variant{
		Kind:       SourceLactate,
		Confidence: confidence,
		Paces:      paces,
		Warnings:   warnings,
	}, true
}

// fieldVariant estimates threshold speed from a critical-velocity style
// multi-trial test. With a single trial only a coarse multiplier off the
// average speed is possible.
func fieldVariant(test *FieldTest) (Variant, bool) {
	if test == nil || len(test.Trials) == 0 {
		return Variant{}, false
	}

	if len(test.Trials) == 1 {
		trial := test.Trials[0]
		if trial.DurationSeconds <= 0 {
			return Variant{}, false
		}
		avgSpeed := trial.DistanceMeters / trial.DurationSeconds // m/s
		thresholdPace := Pace(1000 / (avgSpeed * 0.93))
		marathon := thresholdPace * 1.06
		paces := pacesFromMarathon(marathon)
		paces.Threshold = thresholdPace
		return Variant{
			Kind:       SourceFieldTest,
			Confidence: threshold.ConfidenceLow,
			Paces:      paces,
			Warnings:   []string{"single-trial field test, estimate is coarse"},
		}, true
	}

	criticalSpeed, rSquared := criticalSpeedFit(test.Trials)
	if criticalSpeed <= 0 {
		return Variant{}, false
	}

	thresholdPace := Pace(1000 / criticalSpeed)
	marathon := thresholdPace * 1.06
	paces := pacesFromMarathon(marathon)
	paces.Threshold = thresholdPace

	confidence := threshold.ConfidenceMedium
	var warnings []string
	if rSquared < 0.90 {
		confidence = threshold.ConfidenceLow
		warnings = append(warnings,
			fmt.Sprintf("field test trial pacing inconsistent (R²=%.2f), retest recommended", rSquared))
	}

	return Variant{
		Kind:       SourceFieldTest,
		Confidence: confidence,
		Paces:      paces,
		Warnings:   warnings,
	}, true
}

// criticalSpeedFit runs the linear distance-over-time regression
// d = CS·t + D' and returns CS (m/s) and the fit R².
func criticalSpeedFit(trials []FieldTrial) (float64, float64) {
	n := float64(len(trials))
	var sumT, sumD, sumTT, sumTD float64
	for _, trial := range trials {
		sumT += trial.DurationSeconds
		sumD += trial.DistanceMeters
		sumTT += trial.DurationSeconds * trial.DurationSeconds
		sumTD += trial.DurationSeconds * trial.DistanceMeters
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0, 0
	}
	criticalSpeed := (n*sumTD - sumT*sumD) / denom
	intercept := (sumD - criticalSpeed*sumT) / n

	meanD := sumD / n
	var ssTot, ssRes float64
	for _, trial := range trials {
		fit := criticalSpeed*trial.DurationSeconds + intercept
		ssRes += (trial.DistanceMeters - fit) * (trial.DistanceMeters - fit)
		ssTot += (trial.DistanceMeters - meanD) * (trial.DistanceMeters - meanD)
	}
	if ssTot == 0 {
		return criticalSpeed, 0
	}
	rSquared := 1 - ssRes/ssTot
	if rSquared < 0 {
		rSquared = 0
	}

	return criticalSpeed, rSquared
}

// profileVariant is the last-resort heuristic off the athlete profile.
func profileVariant(a athlete.Athlete) Variant {
	baseline := map[athlete.Classification]float64{
		athlete.ClassificationElite:        60,
		athlete.ClassificationAdvanced:     50,
		athlete.ClassificationRecreational: 42,
		athlete.ClassificationBeginner:     35,
	}[a.Classification]
	if baseline == 0 {
		baseline = 38
	}

	// age fade past 40, capped
	if a.Age > 40 {
		baseline -= math.Min(float64(a.Age-40)*0.25, 10)
	}
	// weekly volume adjustment around a 40km/week pivot, capped
	baseline += math.Max(math.Min((a.WeeklyVolumeKm-40)*0.05, 5), -5)
	// training age bonus, capped
	baseline += math.Min(a.TrainingAgeYears*0.3, 4)

	if baseline < vdotTable[0].vdot {
		baseline = vdotTable[0].vdot
	}

	return Variant{
		Kind:       SourceProfile,
		Confidence: threshold.ConfidenceLow,
		Paces:      pacesFromMarathon(marathonPaceForVDOT(baseline)),
		Warnings:   []string{"paces estimated from profile only, submit a test or race for individualized zones"},
	}
}
