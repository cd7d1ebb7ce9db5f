package paces

import "math"

// vdotEntry is a row of the Daniels-style lookup table.
// Times are in seconds per distance.
type vdotEntry struct {
	vdot     float64
	time1500 float64
	time1Mi  float64
	time5K   float64
	time10K  float64
	timeHalf float64
	timeFull float64
}

const (
	distance1Mile    = 1609.34
	distance5K       = 5000.0
	distance10K      = 10000.0
	distanceHalfMara = 21097.5
	distanceMarathon = 42195.0
)

// vdotTable covers recreational to elite runners (VDOT 30-85).
var vdotTable = []vdotEntry{
	{30, 510, 552, 1860, 3876, 8388, 17496},
	{31, 496, 536, 1806, 3762, 8136, 16980},
	{32, 482, 521, 1752, 3654, 7896, 16488},
	{33, 469, 507, 1704, 3552, 7674, 16020},
	{34, 457, 494, 1656, 3450, 7458, 15570},
	{35, 445, 481, 1614, 3360, 7254, 15138},
	{36, 434, 469, 1572, 3270, 7062, 14730},
	{37, 423, 457, 1530, 3186, 6876, 14334},
	{38, 413, 446, 1494, 3102, 6702, 13956},
	{39, 403, 435, 1458, 3024, 6534, 13596},
	{40, 394, 425, 1422, 2952, 6372, 13248},
	{41, 385, 416, 1392, 2880, 6222, 12918},
	{42, 376, 406, 1356, 2814, 6078, 12600},
	{43, 368, 398, 1326, 2748, 5940, 12300},
	{44, 360, 389, 1296, 2688, 5802, 12006},
	{45, 352, 381, 1266, 2628, 5676, 11730},
	{46, 345, 373, 1242, 2568, 5550, 11460},
	{47, 338, 365, 1212, 2514, 5430, 11202},
	{48, 331, 358, 1188, 2460, 5316, 10956},
	{49, 324, 351, 1164, 2412, 5208, 10722},
	{50, 318, 344, 1140, 2364, 5100, 10494},
	{51, 312, 337, 1116, 2316, 4998, 10278},
	{52, 306, 331, 1098, 2274, 4902, 10068},
	{53, 300, 325, 1074, 2232, 4806, 9870},
	{54, 295, 319, 1056, 2190, 4716, 9678},
	{55, 290, 313, 1038, 2154, 4632, 9492},
	{56, 285, 308, 1020, 2112, 4548, 9312},
	{57, 280, 302, 1002, 2076, 4470, 9144},
	{58, 275, 297, 984, 2040, 4392, 8976},
	{59, 270, 292, 972, 2010, 4320, 8820},
	{60, 266, 288, 954, 1974, 4248, 8664},
	{61, 262, 283, 942, 1944, 4182, 8520},
	{62, 258, 279, 924, 1914, 4116, 8376},
	{63, 254, 274, 912, 1884, 4050, 8238},
	{64, 250, 270, 900, 1860, 3990, 8106},
	{65, 246, 266, 888, 1830, 3930, 7980},
	{66, 242, 262, 876, 1806, 3876, 7860},
	{67, 239, 258, 864, 1782, 3822, 7740},
	{68, 235, 254, 852, 1758, 3768, 7626},
	{69, 232, 251, 840, 1734, 3720, 7518},
	{70, 229, 247, 834, 1716, 3672, 7410},
	{71, 226, 244, 822, 1692, 3624, 7308},
	{72, 223, 241, 810, 1674, 3582, 7212},
	{73, 220, 238, 804, 1656, 3540, 7116},
	{74, 217, 235, 792, 1632, 3498, 7026},
	{75, 214, 232, 786, 1614, 3456, 6936},
	{76, 212, 229, 774, 1596, 3420, 6852},
	{77, 209, 226, 768, 1578, 3384, 6768},
	{78, 206, 223, 756, 1560, 3348, 6690},
	{79, 204, 221, 750, 1548, 3312, 6612},
	{80, 201, 218, 744, 1530, 3282, 6540},
	{81, 199, 215, 738, 1518, 3246, 6468},
	{82, 197, 213, 726, 1500, 3216, 6396},
	{83, 194, 210, 720, 1488, 3186, 6330},
	{84, 192, 208, 714, 1470, 3156, 6264},
	{85, 190, 206, 708, 1458, 3126, 6198},
}

// CalculateVDOT derives a VDOT value from a race result by binary searching
// the lookup table and interpolating between bracketing rows.
func CalculateVDOT(distanceMeters float64, durationSeconds int) float64 {
	if durationSeconds <= 0 || distanceMeters <= 0 {
		return 0
	}

	duration := float64(durationSeconds)

	low, high := 0, len(vdotTable)-1

	if duration >= timeForDistance(vdotTable[0], distanceMeters) {
		return vdotTable[0].vdot
	}
	if duration <= timeForDistance(vdotTable[high], distanceMeters) {
		return vdotTable[high].vdot
	}

	for high-low > 1 {
		mid := (low + high) / 2
		if duration <= timeForDistance(vdotTable[mid], distanceMeters) {
			low = mid
		} else {
			high = mid
		}
	}

	lowEntry, highEntry := vdotTable[low], vdotTable[high]
	lowTime := timeForDistance(lowEntry, distanceMeters)
	highTime := timeForDistance(highEntry, distanceMeters)
	if lowTime == highTime {
		return lowEntry.vdot
	}

	fraction := (lowTime - duration) / (lowTime - highTime)
	vdot := lowEntry.vdot + fraction*(highEntry.vdot-lowEntry.vdot)

	return math.Round(vdot*10) / 10
}

// marathonPaceForVDOT returns the marathon pace (sec/km) the table implies
// for the given VDOT, interpolating between rows.
func marathonPaceForVDOT(vdot float64) Pace {
	if vdot <= 0 {
		return 0
	}

	low, high := 0, len(vdotTable)-1
	if vdot <= vdotTable[0].vdot {
		return Pace(vdotTable[0].timeFull / (distanceMarathon / 1000))
	}
	if vdot >= vdotTable[high].vdot {
		return Pace(vdotTable[high].timeFull / (distanceMarathon / 1000))
	}

	for high-low > 1 {
		mid := (low + high) / 2
		if vdotTable[mid].vdot <= vdot {
			low = mid
		} else {
			high = mid
		}
	}

	lowEntry, highEntry := vdotTable[low], vdotTable[high]
	fraction := (vdot - lowEntry.vdot) / (highEntry.vdot - lowEntry.vdot)
	marathonTime := lowEntry.timeFull + fraction*(highEntry.timeFull-lowEntry.timeFull)

	return Pace(marathonTime / (distanceMarathon / 1000))
}

func timeForDistance(entry vdotEntry, distanceMeters float64) float64 {
	switch {
	case matchesDistance(distanceMeters, 1500):
		return entry.time1500
	case matchesDistance(distanceMeters, distance1Mile):
		return entry.time1Mi
	case matchesDistance(distanceMeters, distance5K):
		return entry.time5K
	case matchesDistance(distanceMeters, distance10K):
		return entry.time10K
	case matchesDistance(distanceMeters, distanceHalfMara):
		return entry.timeHalf
	case matchesDistance(distanceMeters, distanceMarathon):
		return entry.timeFull
	default:
		return interpolateTimeForDistance(entry, distanceMeters)
	}
}

// matchesDistance checks if a distance is within 5% of a target
func matchesDistance(distance, target float64) bool {
	tolerance := target * 0.05
	return math.Abs(distance-target) <= tolerance
}

// interpolateTimeForDistance estimates time for non-standard distances
// using log interpolation between the bracketing standard distances.
func interpolateTimeForDistance(entry vdotEntry, distance float64) float64 {
	type distTime struct {
		dist float64
		time float64
	}

	standards := []distTime{
		{1500, entry.time1500},
		{distance1Mile, entry.time1Mi},
		{distance5K, entry.time5K},
		{distance10K, entry.time10K},
		{distanceHalfMara, entry.timeHalf},
		{distanceMarathon, entry.timeFull},
	}

	var lower, upper distTime
	for i, s := range standards {
		if distance <= s.dist {
			if i == 0 {
				lower, upper = s, standards[1]
			} else {
				lower, upper = standards[i-1], s
			}
			break
		}
		if i == len(standards)-1 {
			lower, upper = standards[len(standards)-2], s
		}
	}

	logDistRatio := math.Log(distance/lower.dist) / math.Log(upper.dist/lower.dist)
	logTimeRatio := math.Log(upper.time) - math.Log(lower.time)

	return math.Exp(math.Log(lower.time) + logDistRatio*logTimeRatio)
}
