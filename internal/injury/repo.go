package injury

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrInvalidTransition = errors.New("invalid injury status transition")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UpsertActive enforces the single open record per athlete: when a
// non-resolved assessment exists it is refreshed in place (severity and
// pain may move, detection date and status stay), otherwise a new ACTIVE
// record opens. The bool reports whether a new record was created.
func (r *Repo) UpsertActive(ctx context.Context, assessment Assessment) (_ *Assessment, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.injury.upsertActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", assessment.AthleteID))

	existing, err := r.openAssessment(ctx, assessment.AthleteID)
	if err != nil && !errors.Is(err, ErrAssessmentNotFound) {
		return nil, false, err
	}

	if existing != nil {
		existing.Severity = assessment.Severity
		existing.PainLevel = assessment.PainLevel
		if assessment.BodyPart != "" {
			existing.BodyPart = assessment.BodyPart
		}
		if assessment.IllnessType != "" {
			existing.IllnessType = assessment.IllnessType
		}
		existing.Phase = ClassifyPhase(existing.DetectedAt, assessment.DetectedAt)

		_, err = r.db.Exec(
			ctx,
			`UPDATE injury_assessment
				SET severity = $1, pain_level = $2, body_part = $3, illness_type = $4, phase = $5
				WHERE id = $6;`,
			existing.Severity, existing.PainLevel, existing.BodyPart,
			existing.IllnessType, existing.Phase, existing.ID,
		)
		if err != nil {
			return nil, false, fmt.Errorf("update injury assessment: %w", err)
		}
		return existing, false, nil
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO injury_assessment
			(athlete_id, status, severity, body_part, illness_type, pain_level, phase, detected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;`,
		assessment.AthleteID, StatusActive, assessment.Severity, assessment.BodyPart,
		assessment.IllnessType, assessment.PainLevel, assessment.Phase, assessment.DetectedAt,
	)
	if err := row.Scan(&assessment.ID); err != nil {
		return nil, false, fmt.Errorf("scan injury assessment id: %w", err)
	}
	assessment.Status = StatusActive

	return &assessment, true, nil
}

func (r *Repo) openAssessment(ctx context.Context, athleteID string) (*Assessment, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, athlete_id, status, severity, body_part, illness_type, pain_level, phase, detected_at, resolved_at
			FROM injury_assessment
			WHERE athlete_id = $1 AND status != $2
			ORDER BY detected_at DESC
			LIMIT 1;`,
		athleteID, StatusResolved,
	)
	return scanAssessment(row)
}

func (r *Repo) Get(ctx context.Context, assessmentID int) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.injury.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(
		ctx,
		`SELECT id, athlete_id, status, severity, body_part, illness_type, pain_level, phase, detected_at, resolved_at
			FROM injury_assessment
			WHERE id = $1;`,
		assessmentID,
	)
	return scanAssessment(row)
}

// Open lists all non-resolved assessments, optionally narrowed to one
// athlete, one lifecycle status or one severity tier.
func (r *Repo) Open(ctx context.Context, athleteID string, status Status, severity Severity) (_ []Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.injury.open")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := `SELECT id, athlete_id, status, severity, body_part, illness_type, pain_level, phase, detected_at, resolved_at
		FROM injury_assessment
		WHERE status != $1`
	args := []any{StatusResolved}
	if athleteID != "" {
		args = append(args, athleteID)
		query += fmt.Sprintf(` AND athlete_id = $%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if severity != "" {
		args = append(args, severity)
		query += fmt.Sprintf(` AND severity = $%d`, len(args))
	}
	query += ` ORDER BY detected_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query open assessments: %w", err)
	}
	defer rows.Close()

	var open []Assessment
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		open = append(open, *assessment)
	}

	return open, rows.Err()
}

// UpdateStatus moves an assessment through its lifecycle. RESOLVED is only
// reachable here, through an explicit call, and stamps the resolution time.
func (r *Repo) UpdateStatus(ctx context.Context, assessmentID int, to Status) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.injury.updateStatus")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("injury.status", string(to)))

	assessment, err := r.Get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !ValidTransition(assessment.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, assessment.Status, to)
	}

	assessment.Status = to
	if to == StatusResolved {
		now := time.Now()
		assessment.ResolvedAt = &now
	}

	_, err = r.db.Exec(
		ctx,
		`UPDATE injury_assessment SET status = $1, resolved_at = $2 WHERE id = $3;`,
		assessment.Status, assessment.ResolvedAt, assessment.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update injury status: %w", err)
	}

	return assessment, nil
}

// UpsertSubstitution stores the cross-training replacement for one
// workout; a cascade re-run refreshes it instead of duplicating.
func (r *Repo) UpsertSubstitution(ctx context.Context, substitution Substitution) (_ *Substitution, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.injury.upsertSubstitution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO cross_training_substitution
			(athlete_id, workout_id, date, modality, duration_min, distance_km, target_hr, equivalent_load, fitness_retention)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (workout_id) DO UPDATE SET
			modality = EXCLUDED.modality,
			duration_min = EXCLUDED.duration_min,
			distance_km = EXCLUDED.distance_km,
			target_hr = EXCLUDED.target_hr,
			equivalent_load = EXCLUDED.equivalent_load,
			fitness_retention = EXCLUDED.fitness_retention
		RETURNING id;`,
		substitution.AthleteID, substitution.WorkoutID, substitution.Date,
		substitution.Modality, substitution.DurationMin, substitution.DistanceKm,
		substitution.TargetHR, substitution.EquivalentLoad, substitution.FitnessRetention,
	)
	if err := row.Scan(&substitution.ID); err != nil {
		return nil, fmt.Errorf("scan substitution id: %w", err)
	}

	return &substitution, nil
}

// AddNotification persists the coach alert row; the kafka publish is a
// separate, equally best-effort step.
func (r *Repo) AddNotification(ctx context.Context, notification Notification) (_ *Notification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.injury.addNotification")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", notification.AthleteID))

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO coach_notification (athlete_id, kind, message, created_at)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		notification.AthleteID, notification.Kind, notification.Message, notification.CreatedAt,
	)
	if err := row.Scan(&notification.ID); err != nil {
		return nil, fmt.Errorf("scan notification id: %w", err)
	}

	return &notification, nil
}

func (r *Repo) SubstitutionsForAthlete(ctx context.Context, athleteID string, from time.Time) (_ []Substitution, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.injury.substitutions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, athlete_id, workout_id, date, modality, duration_min, distance_km, target_hr, equivalent_load, fitness_retention
			FROM cross_training_substitution
			WHERE athlete_id = $1 AND date >= $2
			ORDER BY date;`,
		athleteID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("query substitutions: %w", err)
	}
	defer rows.Close()

	var substitutions []Substitution
	for rows.Next() {
		var s Substitution
		if err := rows.Scan(
			&s.ID, &s.AthleteID, &s.WorkoutID, &s.Date, &s.Modality, &s.DurationMin,
			&s.DistanceKm, &s.TargetHR, &s.EquivalentLoad, &s.FitnessRetention,
		); err != nil {
			return nil, fmt.Errorf("scan substitution: %w", err)
		}
		substitutions = append(substitutions, s)
	}

	return substitutions, rows.Err()
}

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	if err := row.Scan(
		&a.ID, &a.AthleteID, &a.Status, &a.Severity, &a.BodyPart,
		&a.IllnessType, &a.PainLevel, &a.Phase, &a.DetectedAt, &a.ResolvedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return &a, nil
}
