package readiness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrMetricsNotFound = errors.New("daily metrics not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UpsertMetrics stores a check-in keyed by (athlete, date). A later
// submission for the same day replaces the earlier one.
func (r *Repo) UpsertMetrics(ctx context.Context, metrics DailyMetrics) (_ *DailyMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.upsertMetrics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", metrics.AthleteID))

	var painJson []byte
	if metrics.Pain != nil {
		if painJson, err = json.Marshal(metrics.Pain); err != nil {
			return nil, fmt.Errorf("marshal pain: %w", err)
		}
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO daily_metrics
			(athlete_id, date, hrv, resting_hr, sleep_hours, soreness, stress, mood, pain)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (athlete_id, date) DO UPDATE SET
			hrv = EXCLUDED.hrv,
			resting_hr = EXCLUDED.resting_hr,
			sleep_hours = EXCLUDED.sleep_hours,
			soreness = EXCLUDED.soreness,
			stress = EXCLUDED.stress,
			mood = EXCLUDED.mood,
			pain = EXCLUDED.pain
		RETURNING id;`,
		metrics.AthleteID, DayOf(metrics.Date), metrics.HRV, metrics.RestingHR,
		metrics.SleepHours, metrics.Soreness, metrics.Stress, metrics.Mood, painJson,
	)
	if err := row.Scan(&metrics.ID); err != nil {
		return nil, fmt.Errorf("scan metrics id: %w", err)
	}

	return &metrics, nil
}

func (r *Repo) MetricsForDay(ctx context.Context, athleteID string, day time.Time) (_ *DailyMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.metricsForDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(
		ctx,
		`SELECT id, athlete_id, date, hrv, resting_hr, sleep_hours, soreness, stress, mood, pain
			FROM daily_metrics
			WHERE athlete_id = $1 AND date = $2;`,
		athleteID, DayOf(day),
	)

	metrics, err := scanMetrics(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMetricsNotFound
		}
		return nil, err
	}

	return metrics, nil
}

func (r *Repo) MetricsWindow(ctx context.Context, athleteID string, from, to time.Time) (_ []DailyMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.metricsWindow")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, athlete_id, date, hrv, resting_hr, sleep_hours, soreness, stress, mood, pain
			FROM daily_metrics
			WHERE athlete_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date;`,
		athleteID, DayOf(from), DayOf(to),
	)
	if err != nil {
		return nil, fmt.Errorf("query metrics window: %w", err)
	}
	defer rows.Close()

	var window []DailyMetrics
	for rows.Next() {
		metrics, err := scanMetrics(rows)
		if err != nil {
			return nil, err
		}
		window = append(window, *metrics)
	}

	return window, rows.Err()
}

// AddSession records a completed session's load contribution.
func (r *Repo) AddSession(ctx context.Context, session TrainingSession) (_ *TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.addSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", session.AthleteID))

	if session.Date.IsZero() {
		session.Date = time.Now()
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO training_session (athlete_id, date, load)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		session.AthleteID, DayOf(session.Date), session.Load,
	)
	if err := row.Scan(&session.ID); err != nil {
		return nil, fmt.Errorf("scan session id: %w", err)
	}

	return &session, nil
}

func (r *Repo) SessionsThrough(ctx context.Context, athleteID string, through time.Time) (_ []TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.sessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, athlete_id, date, load
			FROM training_session
			WHERE athlete_id = $1 AND date <= $2
			ORDER BY date;`,
		athleteID, DayOf(through),
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []TrainingSession
	for rows.Next() {
		var s TrainingSession
		if err := rows.Scan(&s.ID, &s.AthleteID, &s.Date, &s.Load); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func (r *Repo) UpsertLoadRecord(ctx context.Context, record LoadRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.upsertLoad")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO training_load (athlete_id, date, acute_load, chronic_load, acwr, zone)
			VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (athlete_id, date) DO UPDATE SET
			acute_load = EXCLUDED.acute_load,
			chronic_load = EXCLUDED.chronic_load,
			acwr = EXCLUDED.acwr,
			zone = EXCLUDED.zone;`,
		record.AthleteID, DayOf(record.Date), record.AcuteLoad,
		record.ChronicLoad, record.ACWR, record.Zone,
	)

	return err
}

func (r *Repo) UpsertAssessment(ctx context.Context, assessment Assessment) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.upsertAssessment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	subScoresJson, err := json.Marshal(assessment.SubScores)
	if err != nil {
		return fmt.Errorf("marshal sub scores: %w", err)
	}
	redFlagsJson, err := json.Marshal(assessment.RedFlags)
	if err != nil {
		return fmt.Errorf("marshal red flags: %w", err)
	}
	var painJson []byte
	if assessment.Pain != nil {
		if painJson, err = json.Marshal(assessment.Pain); err != nil {
			return fmt.Errorf("marshal pain: %w", err)
		}
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO readiness_assessment
			(athlete_id, date, score, sub_scores, red_flags, pain, low_hrv, elevated_rhr)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (athlete_id, date) DO UPDATE SET
			score = EXCLUDED.score,
			sub_scores = EXCLUDED.sub_scores,
			red_flags = EXCLUDED.red_flags,
			pain = EXCLUDED.pain,
			low_hrv = EXCLUDED.low_hrv,
			elevated_rhr = EXCLUDED.elevated_rhr;`,
		assessment.AthleteID, DayOf(assessment.Date), assessment.Score,
		subScoresJson, redFlagsJson, painJson, assessment.LowHRV, assessment.ElevatedRHR,
	)

	return err
}

// AssessmentHistory returns the trailing readiness assessments, newest first.
func (r *Repo) AssessmentHistory(ctx context.Context, athleteID string, days int) (_ []Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT athlete_id, date, score, sub_scores, red_flags, pain, low_hrv, elevated_rhr
			FROM readiness_assessment
			WHERE athlete_id = $1 AND date >= $2
			ORDER BY date DESC;`,
		athleteID, DayOf(time.Now()).AddDate(0, 0, -days),
	)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var history []Assessment
	for rows.Next() {
		var a Assessment
		var subScoresJson, redFlagsJson, painJson []byte
		if err := rows.Scan(
			&a.AthleteID, &a.Date, &a.Score, &subScoresJson, &redFlagsJson, &painJson, &a.LowHRV, &a.ElevatedRHR,
		); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if err := json.Unmarshal(subScoresJson, &a.SubScores); err != nil {
			return nil, fmt.Errorf("unmarshal sub scores: %w", err)
		}
		if len(redFlagsJson) > 0 {
			if err := json.Unmarshal(redFlagsJson, &a.RedFlags); err != nil {
				return nil, fmt.Errorf("unmarshal red flags: %w", err)
			}
		}
		if len(painJson) > 0 {
			a.Pain = &Pain{}
			if err := json.Unmarshal(painJson, a.Pain); err != nil {
				return nil, fmt.Errorf("unmarshal pain: %w", err)
			}
		}
		history = append(history, a)
	}

	return history, rows.Err()
}

// ACWRWarnings lists athletes whose latest load record sits outside the
// optimal zone, for the coach dashboard.
func (r *Repo) ACWRWarnings(ctx context.Context, athleteID string) (_ []LoadRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.readiness.acwrWarnings")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := `SELECT DISTINCT ON (athlete_id) athlete_id, date, acute_load, chronic_load, acwr, zone
		FROM training_load
		WHERE zone IN ('CAUTION', 'DANGER', 'CRITICAL')`
	args := []any{}
	if athleteID != "" {
		query += ` AND athlete_id = $1`
		args = append(args, athleteID)
	}
	query += ` ORDER BY athlete_id, date DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query acwr warnings: %w", err)
	}
	defer rows.Close()

	var warnings []LoadRecord
	for rows.Next() {
		var record LoadRecord
		if err := rows.Scan(
			&record.AthleteID, &record.Date, &record.AcuteLoad,
			&record.ChronicLoad, &record.ACWR, &record.Zone,
		); err != nil {
			return nil, fmt.Errorf("scan load record: %w", err)
		}
		warnings = append(warnings, record)
	}

	return warnings, rows.Err()
}

func scanMetrics(row pgx.Row) (*DailyMetrics, error) {
	var metrics DailyMetrics
	var painJson []byte
	if err := row.Scan(
		&metrics.ID, &metrics.AthleteID, &metrics.Date, &metrics.HRV, &metrics.RestingHR,
		&metrics.SleepHours, &metrics.Soreness, &metrics.Stress, &metrics.Mood, &painJson,
	); err != nil {
		return nil, err
	}
	if len(painJson) > 0 {
		metrics.Pain = &Pain{}
		if err := json.Unmarshal(painJson, metrics.Pain); err != nil {
			return nil, fmt.Errorf("unmarshal pain: %w", err)
		}
	}
	return &metrics, nil
}
