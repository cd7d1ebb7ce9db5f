package readiness

import (
	"github.com/strideworks/coachengine/internal/config"
)

// Scorer turns a day's inputs into the composite 0-10 readiness score.
// The weights and thresholds are coaching-staff tunables, not laws, but
// every component mapping is monotonic: a worse input never raises the
// score.
type Scorer struct {
	cfg config.EngineConfig
}

func NewScorer(cfg config.EngineConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Assess computes the composite score, sub-scores, baseline deviation
// signals and red flags for one day.
func (s *Scorer) Assess(
	metrics DailyMetrics,
	hrvBaseline, rhrBaseline Baseline,
	load LoadRecord,
) Assessment {
	sub := SubScores{
		HRV:      baselineScore(metrics.HRV, hrvBaseline, false),
		RHR:      baselineScore(metrics.RestingHR, rhrBaseline, true),
		Wellness: wellnessScore(metrics),
		Sleep:    sleepScore(metrics.SleepHours),
		ACWR:     acwrScore(load.Zone),
	}

	totalWeight := s.cfg.HRVWeight + s.cfg.RHRWeight + s.cfg.WellnessWeight +
		s.cfg.SleepWeight + s.cfg.ACWRWeight

	score := (sub.HRV*s.cfg.HRVWeight +
		sub.RHR*s.cfg.RHRWeight +
		sub.Wellness*s.cfg.WellnessWeight +
		sub.Sleep*s.cfg.SleepWeight +
		sub.ACWR*s.cfg.ACWRWeight) / totalWeight

	assessment := Assessment{
		AthleteID:   metrics.AthleteID,
		Date:        DayOf(metrics.Date),
		Score:       clamp(score, 0, 10),
		SubScores:   sub,
		Pain:        metrics.Pain,
		LowHRV:      hrvBaseline.IsLowOutlier(metrics.HRV),
		ElevatedRHR: rhrBaseline.IsHighOutlier(metrics.RestingHR),
	}
	assessment.RedFlags = s.redFlags(metrics, assessment.Score)

	return assessment
}

// redFlags is the higher-priority check that runs regardless of the
// composite. Each flag independently qualifies as a cascade trigger.
func (s *Scorer) redFlags(metrics DailyMetrics, score float64) []RedFlag {
	var flags []RedFlag

	if metrics.Pain != nil && metrics.Pain.Level >= s.cfg.PainRedFlag {
		flags = append(flags, RedFlag{
			Kind: FlagPain, Value: metrics.Pain.Level, Threshold: s.cfg.PainRedFlag,
		})
	}
	if metrics.Pain != nil && metrics.Pain.Illness {
		flags = append(flags, RedFlag{
			Kind: FlagIllness, Value: 1, Threshold: 1,
		})
	}
	if score < s.cfg.ReadinessRedFlag {
		flags = append(flags, RedFlag{
			Kind: FlagReadiness, Value: score, Threshold: s.cfg.ReadinessRedFlag,
		})
	}
	if metrics.SleepHours > 0 && metrics.SleepHours < s.cfg.SleepRedFlag {
		flags = append(flags, RedFlag{
			Kind: FlagSleep, Value: metrics.SleepHours, Threshold: s.cfg.SleepRedFlag,
		})
	}
	if metrics.Stress >= s.cfg.StressRedFlag {
		flags = append(flags, RedFlag{
			Kind: FlagStress, Value: metrics.Stress, Threshold: s.cfg.StressRedFlag,
		})
	}

	return flags
}

// baselineScore maps a value's z-distance from its rolling baseline onto
// 0-10, centered at 7 when the value sits on the baseline. For HRV higher
// is better; inverted for resting HR.
func baselineScore(value float64, baseline Baseline, lowerIsBetter bool) float64 {
	if value <= 0 || baseline.Samples < baselineMinSamples || baseline.SD == 0 {
		// no usable baseline yet, stay neutral
		return 7
	}

	z := (value - baseline.Mean) / baseline.SD
	if lowerIsBetter {
		z = -z
	}

	return clamp(7+2*z, 0, 10)
}

func wellnessScore(metrics DailyMetrics) float64 {
	// soreness and stress count inverted, mood counts directly
	return clamp(((10-metrics.Soreness)+(10-metrics.Stress)+metrics.Mood)/3, 0, 10)
}

func sleepScore(hours float64) float64 {
	if hours <= 0 {
		// not reported, stay neutral
		return 7
	}
	return clamp(hours/8*10, 0, 10)
}

// acwrScore rewards the optimal zone and punishes overload progressively.
// Detraining is mildly penalized, undertraining is a fitness problem, not
// an injury risk.
func acwrScore(zone ACWRZone) float64 {
	switch zone {
	case ZoneOptimal:
		return 10
	case ZoneDetraining:
		return 7
	case ZoneCaution:
		return 6
	case ZoneDanger:
		return 3
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
