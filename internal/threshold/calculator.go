package threshold

import (
	"fmt"
	"math"
)

const (
	// minStages is the least number of test stages a curve can be fitted to
	minStages = 4

	// rSquaredGate rejects a fit as unreliable (confidence LOW) below this value
	rSquaredGate = 0.90

	// lactateRiseThreshold marks the first meaningful rise above baseline,
	// used as the chord start for the modified D-max variant
	lactateRiseThreshold = 0.4

	// curveSamples is the resolution the fitted curve is scanned at
	curveSamples = 500
)

// Calculator fits a lactate/speed curve and extracts the threshold point
// via the D-max maximal deviation method.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Analyze fits a cubic polynomial to lactate vs. speed and returns the
// threshold point. The result is always returned when a fit is possible;
// a poor fit is flagged with confidence LOW, never discarded.
func (c *Calculator) Analyze(test Test) (*Result, error) {
	if len(test.Stages) < minStages {
		return nil, fmt.Errorf("%w: got %d stages, need at least %d",
			ErrInsufficientData, len(test.Stages), minStages)
	}

	var warnings []string

	speeds := make([]float64, len(test.Stages))
	lactates := make([]float64, len(test.Stages))
	for i, st := range test.Stages {
		speeds[i] = st.SpeedKmh
		lactates[i] = st.Lactate
		if i > 0 && st.SpeedKmh <= test.Stages[i-1].SpeedKmh {
			return nil, fmt.Errorf("%w: stage speeds must be strictly increasing", ErrInsufficientData)
		}
	}

	// lactate dipping at high effort is physiologically odd but not fatal
	for i := len(test.Stages) / 2; i < len(test.Stages); i++ {
		if i > 0 && test.Stages[i].Lactate < test.Stages[i-1].Lactate {
			warnings = append(warnings,
				fmt.Sprintf("non-monotonic lactate at stage %d (%.1f -> %.1f mmol/L)",
					i+1, test.Stages[i-1].Lactate, test.Stages[i].Lactate))
			break
		}
	}

	coeffs, err := fitCubic(speeds, lactates)
	if err != nil {
		return nil, err
	}

	rSquared := rSquaredOf(coeffs, speeds, lactates)

	// modified D-max: chord starts at the first stage after a meaningful
	// rise above baseline lactate, falling back to the plain chord
	chordStart := 0
	method := "dmax"
	for i := 1; i < len(test.Stages)-1; i++ {
		if test.Stages[i].Lactate >= test.Stages[0].Lactate+lactateRiseThreshold {
			chordStart = i
			method = "dmax-mod"
			break
		}
	}

	thresholdSpeed := dmaxPoint(coeffs, speeds[chordStart], speeds[len(speeds)-1])

	confidence := confidenceFor(rSquared)
	if rSquared < rSquaredGate {
		warnings = append(warnings,
			fmt.Sprintf("curve fit below reliability gate (R²=%.3f), retest recommended", rSquared))
	}

	// a manually flagged stage always wins over the computed point
	if test.ManualThresholdStage != nil {
		idx := *test.ManualThresholdStage
		if idx < 0 || idx >= len(test.Stages) {
			return nil, fmt.Errorf("manual threshold stage %d out of range", idx)
		}
		return &Result{
			ThresholdSpeedKmh: test.Stages[idx].SpeedKmh,
			ThresholdHR:       test.Stages[idx].HeartRate,
			Confidence:        ConfidenceVeryHigh,
			RSquared:          rSquared,
			Method:            "manual",
			Warnings:          warnings,
		}, nil
	}

	return &Result{
		ThresholdSpeedKmh: thresholdSpeed,
		ThresholdHR:       interpolateHR(test.Stages, thresholdSpeed),
		Confidence:        confidence,
		RSquared:          rSquared,
		Method:            method,
		Warnings:          warnings,
	}, nil
}

func confidenceFor(rSquared float64) Confidence {
	switch {
	case rSquared >= 0.98:
		return ConfidenceVeryHigh
	case rSquared >= 0.95:
		return ConfidenceHigh
	case rSquared >= rSquaredGate:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// fitCubic solves the least-squares cubic through the given points
// via the normal equations. Returns coefficients [a0, a1, a2, a3] of
// a0 + a1*x + a2*x² + a3*x³.
func fitCubic(xs, ys []float64) ([4]float64, error) {
	var coeffs [4]float64
	n := len(xs)
	if n < minStages {
		return coeffs, ErrInsufficientData
	}

	// accumulate sums of powers of x up to x^6 and x^k*y up to k=3
	var sx [7]float64
	var sxy [4]float64
	for i := 0; i < n; i++ {
		xp := 1.0
		for p := 0; p <= 6; p++ {
			sx[p] += xp
			if p <= 3 {
				sxy[p] += xp * ys[i]
			}
			xp *= xs[i]
		}
	}

	// 4x4 normal equation system
	var m [4][5]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[row][col] = sx[row+col]
		}
		m[row][4] = sxy[row]
	}

	// gaussian elimination with partial pivoting
	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		m[col], m[pivot] = m[pivot], m[col]

		if math.Abs(m[col][col]) < 1e-12 {
			return coeffs, fmt.Errorf("%w: degenerate stage speeds", ErrInsufficientData)
		}

		for row := col + 1; row < 4; row++ {
			factor := m[row][col] / m[col][col]
			for k := col; k <= 4; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	for row := 3; row >= 0; row-- {
		sum := m[row][4]
		for col := row + 1; col < 4; col++ {
			sum -= m[row][col] * coeffs[col]
		}
		coeffs[row] = sum / m[row][row]
	}

	return coeffs, nil
}

func polyAt(coeffs [4]float64, x float64) float64 {
	return coeffs[0] + x*(coeffs[1]+x*(coeffs[2]+x*coeffs[3]))
}

func rSquaredOf(coeffs [4]float64, xs, ys []float64) float64 {
	var mean float64
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	var ssTot, ssRes float64
	for i, x := range xs {
		fit := polyAt(coeffs, x)
		ssRes += (ys[i] - fit) * (ys[i] - fit)
		ssTot += (ys[i] - mean) * (ys[i] - mean)
	}
	if ssTot == 0 {
		return 0
	}

	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	return r2
}

// dmaxPoint scans the fitted curve between chord endpoints and returns the
// speed at maximal perpendicular distance from the chord.
func dmaxPoint(coeffs [4]float64, xStart, xEnd float64) float64 {
	y1 := polyAt(coeffs, xStart)
	y2 := polyAt(coeffs, xEnd)

	// chord as a*x + b*y + c = 0
	a := y2 - y1
	b := xStart - xEnd
	cc := xEnd*y1 - xStart*y2
	norm := math.Hypot(a, b)
	if norm == 0 {
		return xStart
	}

	bestX := xStart
	bestDist := -1.0
	step := (xEnd - xStart) / curveSamples
	for i := 0; i <= curveSamples; i++ {
		x := xStart + float64(i)*step
		dist := math.Abs(a*x+b*polyAt(coeffs, x)+cc) / norm
		if dist > bestDist {
			bestDist = dist
			bestX = x
		}
	}

	return bestX
}

// interpolateHR estimates the heart rate at the given speed by linear
// interpolation between the surrounding stages.
func interpolateHR(stages []Stage, speed float64) float64 {
	if speed <= stages[0].SpeedKmh {
		return stages[0].HeartRate
	}
	last := stages[len(stages)-1]
	if speed >= last.SpeedKmh {
		return last.HeartRate
	}
	for i := 1; i < len(stages); i++ {
		if speed <= stages[i].SpeedKmh {
			lo, hi := stages[i-1], stages[i]
			frac := (speed - lo.SpeedKmh) / (hi.SpeedKmh - lo.SpeedKmh)
			return lo.HeartRate + frac*(hi.HeartRate-lo.HeartRate)
		}
	}
	return last.HeartRate
}
