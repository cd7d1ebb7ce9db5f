package readiness

import "math"

const (
	baselineWindowDays   = 7
	baselineDeviationSDs = 1.5

	// below this many points the baseline is too noisy to flag deviations
	baselineMinSamples = 3
)

// Baseline is the rolling mean/SD aggregate over a trailing window. It is
// a cache over the immutable metrics history, never a running accumulator,
// so corrected historical records regenerate it deterministically.
type Baseline struct {
	Mean    float64 `json:"mean"`
	SD      float64 `json:"sd"`
	Samples int     `json:"samples"`
}

// ComputeBaseline derives mean and sample standard deviation from the
// trailing window values. Zero values are treated as missing and skipped.
func ComputeBaseline(values []float64) Baseline {
	var sum float64
	var n int
	for _, v := range values {
		if v <= 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Baseline{}
	}

	mean := sum / float64(n)

	var sqDiffSum float64
	for _, v := range values {
		if v <= 0 {
			continue
		}
		sqDiffSum += (v - mean) * (v - mean)
	}

	var sd float64
	if n > 1 {
		sd = math.Sqrt(sqDiffSum / float64(n-1))
	}

	return Baseline{Mean: mean, SD: sd, Samples: n}
}

// IsLowOutlier reports whether v sits more than the deviation gate below
// the baseline. Used for the low-HRV signal.
func (b Baseline) IsLowOutlier(v float64) bool {
	if b.Samples < baselineMinSamples || b.SD == 0 || v <= 0 {
		return false
	}
	return v < b.Mean-baselineDeviationSDs*b.SD
}

// IsHighOutlier reports whether v sits more than the deviation gate above
// the baseline. Used for the elevated-RHR signal.
func (b Baseline) IsHighOutlier(v float64) bool {
	if b.Samples < baselineMinSamples || b.SD == 0 || v <= 0 {
		return false
	}
	return v > b.Mean+baselineDeviationSDs*b.SD
}
