package paces

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/internal/threshold"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// sourceMismatchThreshold is the relative marathon pace disagreement above
// which the two best sources are considered in conflict.
const defaultSourceMismatchThreshold = 0.15

var ErrNoSources = errors.New("no pace sources available")

type athleteProvider interface {
	Get(ctx context.Context, id string) (*athlete.Athlete, error)
	LatestRace(ctx context.Context, athleteID string) (*athlete.RaceResult, error)
}

type thresholdProvider interface {
	LatestByAthlete(ctx context.Context, athleteID string) (*threshold.Test, *threshold.Result, error)
}

type fieldTestProvider interface {
	LatestByAthlete(ctx context.Context, athleteID string) (*FieldTest, error)
}

// Synthesizer projects training paces and zones from whatever inputs an
// athlete has. The projection is derived state and is recomputed on every
// call, only the short lived cache in front of it softens the cost.
type Synthesizer struct {
	athletes          athleteProvider
	thresholdTests    thresholdProvider
	fieldTests        fieldTestProvider
	mismatchThreshold float64
}

func NewSynthesizer(
	athletes athleteProvider,
	thresholdTests thresholdProvider,
	fieldTests fieldTestProvider,
	mismatchThreshold float64,
) *Synthesizer {
	if mismatchThreshold <= 0 {
		mismatchThreshold = defaultSourceMismatchThreshold
	}
	return &Synthesizer{
		athletes:          athletes,
		thresholdTests:    thresholdTests,
		fieldTests:        fieldTests,
		mismatchThreshold: mismatchThreshold,
	}
}

// Synthesize builds the pace selection for an athlete. A non-empty
// preferredSource overrides the priority hierarchy when that source is
// actually available, otherwise the hierarchy applies and a warning is
// attached.
func (s *Synthesizer) Synthesize(ctx context.Context, athleteID string, preferredSource SourceKind) (sel *Selection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "paces.synthesize")
	defer tracing.EndSpanWithErrCheck(span, err)
	span.SetAttributes(attribute.String("athlete.id", athleteID))

	a, err := s.athletes.Get(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("get athlete: %w", err)
	}

	variants := s.collectVariants(ctx, *a)
	if len(variants) == 0 {
		return nil, ErrNoSources
	}
	sortVariants(variants)

	var warnings []string
	primary := variants[0]
	if preferredSource != SourceNone && preferredSource != primary.Kind {
		if override, ok := findVariant(variants, preferredSource); ok {
			primary = override
		} else {
			warnings = append(warnings,
				fmt.Sprintf("requested source %s has no data, fell back to %s", preferredSource, primary.Kind))
		}
	}

	selection := &Selection{
		AthleteID:     athleteID,
		Paces:         primary.Paces,
		PrimarySource: primary.Kind,
		Confidence:    primary.Confidence,
		Zones:         BuildZones(primary.Paces, a.MaxHR),
		GeneratedAt:   time.Now(),
	}
	warnings = append(warnings, primary.Warnings...)

	// cross-validate against the next-best independent source
	if secondary, ok := secondaryVariant(variants, primary.Kind); ok {
		selection.SecondarySource = secondary.Kind
		selection.Validation = s.validate(primary, secondary)
		if !selection.Validation.OK {
			selection.Confidence = selection.Confidence.Degrade()
			warnings = append(warnings, fmt.Sprintf(
				"marathon pace from %s and %s disagree by %.0f%%, recent fitness change or a stale input is likely",
				primary.Kind, secondary.Kind, selection.Validation.MismatchPct*100))
		}
	}

	selection.Warnings = warnings

	return selection, nil
}

// collectVariants probes every source. Missing data is normal and only
// logged at trace level, real lookup failures are logged and skipped so a
// single bad source never blanks the whole projection.
func (s *Synthesizer) collectVariants(ctx context.Context, a athlete.Athlete) []Variant {
	var variants []Variant

	race, err := s.athletes.LatestRace(ctx, a.ID)
	switch {
	case err == nil:
		if v, ok := raceVariant(race); ok {
			if time.Since(race.RacedAt) < 60*24*time.Hour {
				v.Confidence = threshold.ConfidenceVeryHigh
			}
			variants = append(variants, v)
		}
	case errors.Is(err, athlete.ErrNoRaceResults):
		log.Tracef("no race results for athlete %s", a.ID)
	default:
		log.Errorf("failed to get latest race for %s: %s", a.ID, err)
	}

	_, result, err := s.thresholdTests.LatestByAthlete(ctx, a.ID)
	switch {
	case err == nil:
		if v, ok := lactateVariant(result, a.Classification); ok {
			variants = append(variants, v)
		}
	case errors.Is(err, threshold.ErrTestNotFound):
		log.Tracef("no threshold tests for athlete %s", a.ID)
	default:
		log.Errorf("failed to get latest threshold test for %s: %s", a.ID, err)
	}

	fieldTest, err := s.fieldTests.LatestByAthlete(ctx, a.ID)
	switch {
	case err == nil:
		if v, ok := fieldVariant(fieldTest); ok {
			variants = append(variants, v)
		}
	case errors.Is(err, ErrFieldTestNotFound):
		log.Tracef("no field tests for athlete %s", a.ID)
	default:
		log.Errorf("failed to get latest field test for %s: %s", a.ID, err)
	}

	// profile estimate always exists
	variants = append(variants, profileVariant(a))

	return variants
}

func (s *Synthesizer) validate(primary, secondary Variant) ValidationResult {
	if secondary.Paces.Marathon <= 0 || primary.Paces.Marathon <= 0 {
		return ValidationResult{}
	}
	mismatch := math.Abs(float64(primary.Paces.Marathon-secondary.Paces.Marathon)) /
		float64(primary.Paces.Marathon)
	return ValidationResult{
		Checked:     true,
		MismatchPct: mismatch,
		OK:          mismatch <= s.mismatchThreshold,
	}
}

func findVariant(variants []Variant, kind SourceKind) (Variant, bool) {
	for _, v := range variants {
		if v.Kind == kind {
			return v, true
		}
	}
	return Variant{}, false
}

// secondaryVariant picks the best variant that is not the primary and not
// the profile estimate. The profile guess is too coarse to validate against.
func secondaryVariant(variants []Variant, primaryKind SourceKind) (Variant, bool) {
	for _, v := range variants {
		if v.Kind == primaryKind || v.Kind == SourceProfile {
			continue
		}
		return v, true
	}
	return Variant{}, false
}
