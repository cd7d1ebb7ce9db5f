package readiness

import "time"

const (
	acuteWindowDays   = 7
	chronicWindowDays = 28

	acuteDecay   = 2.0 / (acuteWindowDays + 1)
	chronicDecay = 2.0 / (chronicWindowDays + 1)
)

// ComputeLoad derives the training load state for the given day from the
// full session history. Days without sessions count as zero load, so a
// break decays the averages instead of freezing them. The computation is a
// pure fold over the history: same input, same output, every time.
func ComputeLoad(athleteID string, sessions []TrainingSession, day time.Time) LoadRecord {
	day = DayOf(day)

	record := LoadRecord{
		AthleteID: athleteID,
		Date:      day,
	}

	loadByDay := make(map[time.Time]float64)
	var first time.Time
	for _, s := range sessions {
		d := DayOf(s.Date)
		if d.After(day) {
			continue
		}
		loadByDay[d] += s.Load
		if first.IsZero() || d.Before(first) {
			first = d
		}
	}
	if first.IsZero() {
		record.Zone = ClassifyACWR(0)
		return record
	}

	var acute, chronic float64
	for d := first; !d.After(day); d = d.AddDate(0, 0, 1) {
		load := loadByDay[d]
		acute = load*acuteDecay + acute*(1-acuteDecay)
		chronic = load*chronicDecay + chronic*(1-chronicDecay)
	}

	record.AcuteLoad = acute
	record.ChronicLoad = chronic
	if chronic > 0 {
		record.ACWR = acute / chronic
	}
	record.Zone = ClassifyACWR(record.ACWR)

	return record
}
