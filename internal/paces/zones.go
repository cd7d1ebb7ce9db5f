package paces

// BuildZones derives the four parallel zone systems from the core paces.
// HR zones are only emitted when max HR is known, athletes without one on
// file still get the pace based systems.
func BuildZones(paces CorePaces, maxHR float64) ZoneSet {
	zones := ZoneSet{
		Effort:      effortZones(paces),
		PctMarathon: pctMarathonZones(paces),
		Lactate:     lactateZones(paces),
	}
	if maxHR > 0 {
		zones.HeartRate = heartRateZones(maxHR)
	}
	return zones
}

// effortZones is the classic five zone easy-to-repetition split.
func effortZones(paces CorePaces) []PaceZone {
	return []PaceZone{
		{Zone: 1, Name: "easy", PaceLo: paces.EasyLo, PaceHi: paces.EasyHi},
		{Zone: 2, Name: "marathon", PaceLo: paces.Marathon, PaceHi: paces.EasyLo},
		{Zone: 3, Name: "threshold", PaceLo: paces.Threshold, PaceHi: paces.Marathon},
		{Zone: 4, Name: "interval", PaceLo: paces.Interval, PaceHi: paces.Threshold},
		{Zone: 5, Name: "repetition", PaceLo: paces.Repetition, PaceHi: paces.Interval},
	}
}

// pctMarathonZones expresses seven bands as percentages of marathon pace.
// A lower multiplier means a faster pace.
func pctMarathonZones(paces CorePaces) []PaceZone {
	m := paces.Marathon
	return []PaceZone{
		{Zone: 1, Name: "recovery", PaceLo: m * 1.30, PaceHi: m * 1.40},
		{Zone: 2, Name: "easy", PaceLo: m * 1.20, PaceHi: m * 1.30},
		{Zone: 3, Name: "aerobic", PaceLo: m * 1.10, PaceHi: m * 1.20},
		{Zone: 4, Name: "steady", PaceLo: m * 1.00, PaceHi: m * 1.10},
		{Zone: 5, Name: "tempo", PaceLo: m * 0.94, PaceHi: m * 1.00},
		{Zone: 6, Name: "threshold", PaceLo: m * 0.88, PaceHi: m * 0.94},
		{Zone: 7, Name: "vo2max", PaceLo: m * 0.80, PaceHi: m * 0.88},
	}
}

// lactateZones is the coarse three band system coaches on lactate driven
// methodologies plan in, anchored on the threshold pace itself.
func lactateZones(paces CorePaces) []PaceZone {
	t := paces.Threshold
	return []PaceZone{
		{Zone: 1, Name: "below-lt1", PaceLo: t * 1.10, PaceHi: 0},
		{Zone: 2, Name: "lt1-lt2", PaceLo: t, PaceHi: t * 1.10},
		{Zone: 3, Name: "above-lt2", PaceLo: 0, PaceHi: t},
	}
}

// heartRateZones is a five band percent-of-max system.
func heartRateZones(maxHR float64) []HRZone {
	bands := []struct {
		name  string
		pctLo float64
		pctHi float64
	}{
		{"recovery", 0.50, 0.60},
		{"aerobic", 0.60, 0.70},
		{"tempo", 0.70, 0.80},
		{"threshold", 0.80, 0.90},
		{"maximal", 0.90, 1.00},
	}

	zones := make([]HRZone, 0, len(bands))
	for i, band := range bands {
		zones = append(zones, HRZone{
			Zone:  i + 1,
			Name:  band.name,
			HRLo:  band.pctLo * maxHR,
			HRHi:  band.pctHi * maxHR,
			PctLo: band.pctLo,
			PctHi: band.pctHi,
		})
	}
	return zones
}
