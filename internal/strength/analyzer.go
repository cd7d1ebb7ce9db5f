package strength

import (
	"fmt"
	"math"
	"sort"

	"github.com/strideworks/coachengine/internal/config"
)

const (
	minAnalysisSessions = 4
	plateauMinDays      = 21

	// relative 1RM change per week below which the trend reads as noise
	trendSlopeTolerance = 0.005

	// the prescribed cut always lands inside this audit band
	deloadVolumeCutMin = 0.40
	deloadVolumeCutMax = 0.60
)

// Analyzer classifies strength progression per exercise and prescribes
// deloads. Pure computation over an already-fetched session window.
type Analyzer struct {
	cfg config.EngineConfig
}

func NewAnalyzer(cfg config.EngineConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze inspects the trailing sessions of one exercise. Fewer than four
// sessions is not an error: the verdict is an explicit no-op with
// "not enough data" reasoning.
func (a *Analyzer) Analyze(athleteID, exercise string, sessions []Session) Analysis {
	analysis := Analysis{
		AthleteID: athleteID,
		Exercise:  exercise,
		Sessions:  len(sessions),
	}

	if len(sessions) < minAnalysisSessions {
		analysis.InsufficientData = true
		analysis.Trend = TrendStable
		analysis.Recommendation = RecommendContinue
		analysis.Reason = fmt.Sprintf(
			"not enough data: %d sessions logged, %d needed for trend analysis",
			len(sessions), minAnalysisSessions,
		)
		return analysis
	}

	sorted := make([]Session, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	first, last := sorted[0], sorted[len(sorted)-1]
	analysis.SpanDays = int(last.Date.Sub(first.Date).Hours() / 24)
	analysis.First1RM = first.Estimated1RM()
	analysis.Last1RM = last.Estimated1RM()
	analysis.LoadProgressed = last.LoadKg > first.LoadKg
	analysis.RepsProgressed = repsAtTopLoadIncreased(sorted)
	analysis.Trend = classifyTrend(sorted)

	switch {
	case analysis.Trend == TrendDeclining:
		// a declining 1RM estimate escalates straight to a deload, no
		// matter how short the window
		analysis.Recommendation = RecommendDeload
		analysis.Reason = "estimated 1RM declining across the window"
	case !analysis.LoadProgressed && !analysis.RepsProgressed &&
		analysis.Trend != TrendImproving && analysis.SpanDays >= plateauMinDays:
		analysis.Plateau = true
		analysis.Recommendation = RecommendVariation
		analysis.Reason = fmt.Sprintf(
			"no progress on load, reps or estimated 1RM over %d days", analysis.SpanDays)
	default:
		analysis.Recommendation = RecommendContinue
		analysis.Reason = "progression on track"
	}

	if analysis.Recommendation == RecommendDeload {
		deload := a.Prescribe(last)
		analysis.Deload = &deload
	}

	return analysis
}

// Prescribe builds the deload week off the latest session: roughly half
// the sets*reps volume and a small fixed load reduction.
func (a *Analyzer) Prescribe(latest Session) Deload {
	sets, reps := deloadSplit(latest)

	deload := Deload{
		Sets:   sets,
		Reps:   reps,
		LoadKg: latest.LoadKg * (1 - a.cfg.DeloadLoadReduction),
	}
	if volume := latest.Volume(); volume > 0 {
		deload.VolumeReductionPct = (1 - float64(sets*reps)/float64(volume)) * 100
	}
	return deload
}

// deloadSplit picks the sets/reps pair whose retained volume sits closest
// to half the original, inside the audit band whenever an integer split
// can reach it. Sessions too small to split, like a lone single, keep the
// nearest achievable cut.
func deloadSplit(latest Session) (int, int) {
	if latest.Sets < 1 || latest.Reps < 1 {
		return 1, 1
	}

	volume := float64(latest.Volume())
	target := volume / 2

	bestSets, bestReps := 1, 1
	bestDistance := math.MaxFloat64
	bestInBand := false

	for s := latest.Sets; s >= 1; s-- {
		for r := latest.Reps; r >= 1; r-- {
			retained := float64(s * r)
			cut := 1 - retained/volume
			inBand := cut >= deloadVolumeCutMin && cut <= deloadVolumeCutMax
			distance := math.Abs(retained - target)

			if inBand && !bestInBand {
				bestSets, bestReps, bestDistance, bestInBand = s, r, distance, true
				continue
			}
			if inBand == bestInBand && distance < bestDistance {
				bestSets, bestReps, bestDistance = s, r, distance
			}
		}
	}

	return bestSets, bestReps
}

// classifyTrend fits estimated 1RM against time and reads the slope as a
// relative change per week.
func classifyTrend(sorted []Session) Trend {
	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(sorted))
	start := sorted[0].Date

	for _, s := range sorted {
		x := s.Date.Sub(start).Hours() / 24
		y := s.Estimated1RM()
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return TrendStable
	}
	slopePerDay := (n*sumXY - sumX*sumY) / denominator

	mean := sumY / n
	if mean <= 0 {
		return TrendStable
	}
	weeklyRelative := slopePerDay * 7 / mean

	switch {
	case weeklyRelative > trendSlopeTolerance:
		return TrendImproving
	case weeklyRelative < -trendSlopeTolerance:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// repsAtTopLoadIncreased checks the third progression axis: more reps at
// the heaviest load seen in the window.
func repsAtTopLoadIncreased(sorted []Session) bool {
	topLoad := 0.0
	for _, s := range sorted {
		if s.LoadKg > topLoad {
			topLoad = s.LoadKg
		}
	}

	firstReps, lastReps := 0, 0
	for _, s := range sorted {
		if s.LoadKg != topLoad {
			continue
		}
		if firstReps == 0 {
			firstReps = s.Reps
		}
		lastReps = s.Reps
	}

	return lastReps > firstReps
}
