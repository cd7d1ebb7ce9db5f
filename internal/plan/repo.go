package plan

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

var (
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrModificationNotFound = errors.New("modification not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// AddWorkout schedules a new workout.
func (r *Repo) AddWorkout(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.addWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", workout.AthleteID))

	if workout.Status == "" {
		workout.Status = StatusPlanned
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO workout
			(athlete_id, date, type, status, duration_min, distance_km, target_hr, load, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;`,
		workout.AthleteID, workout.Date, workout.Type, workout.Status,
		workout.DurationMin, workout.DistanceKm, workout.TargetHR, workout.Load, workout.Description,
	)
	if err := row.Scan(&workout.ID); err != nil {
		return nil, fmt.Errorf("scan workout id: %w", err)
	}

	return &workout, nil
}

// UpcomingWorkouts returns workouts scheduled on or after the given day
// that are still in a modifiable state, soonest first.
func (r *Repo) UpcomingWorkouts(ctx context.Context, athleteID string, from time.Time, limit int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.upcoming")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", athleteID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, athlete_id, date, type, status, duration_min, distance_km, target_hr, load, description
			FROM workout
			WHERE athlete_id = $1 AND date >= $2 AND status IN ('PLANNED', 'MODIFIED')
			ORDER BY date
			LIMIT $3;`,
		athleteID, from, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// WorkoutsInWindow returns modifiable workouts in [from, to], for the
// injury cascade's substitution window.
func (r *Repo) WorkoutsInWindow(ctx context.Context, athleteID string, from, to time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.window")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", athleteID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, athlete_id, date, type, status, duration_min, distance_km, target_hr, load, description
			FROM workout
			WHERE athlete_id = $1 AND date >= $2 AND date <= $3 AND status IN ('PLANNED', 'MODIFIED')
			ORDER BY date;`,
		athleteID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

func (r *Repo) UpdateWorkoutStatus(ctx context.Context, workoutID int, status WorkoutStatus) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.updateStatus")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET status = $1 WHERE id = $2;`,
		status, workoutID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// UpsertModification stores a modification unless a reviewed one already
// exists for the same workout and day. Reviewed records are history and
// are never overwritten; the second return value reports whether the
// write was applied.
func (r *Repo) UpsertModification(ctx context.Context, modification Modification) (_ *Modification, applied bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.upsertModification")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", modification.WorkoutID))

	var reviewed bool
	err = r.db.QueryRow(
		ctx,
		`SELECT reviewed FROM workout_modification
			WHERE workout_id = $1 AND date = $2
			ORDER BY created_at DESC
			LIMIT 1;`,
		modification.WorkoutID, modification.Date,
	).Scan(&reviewed)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("check existing modification: %w", err)
	}
	if err == nil && reviewed {
		return nil, false, nil
	}

	originalJson, err := json.Marshal(modification.Original)
	if err != nil {
		return nil, false, fmt.Errorf("marshal original workout: %w", err)
	}
	var modifiedJson []byte
	if modification.Modified != nil {
		if modifiedJson, err = json.Marshal(modification.Modified); err != nil {
			return nil, false, fmt.Errorf("marshal modified workout: %w", err)
		}
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO workout_modification
			(workout_id, athlete_id, date, action, reason, original, modified,
			 auto_generated, needs_manual_review, reviewed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10)
		ON CONFLICT (workout_id, date) WHERE NOT reviewed DO UPDATE SET
			action = EXCLUDED.action,
			reason = EXCLUDED.reason,
			original = EXCLUDED.original,
			modified = EXCLUDED.modified,
			auto_generated = EXCLUDED.auto_generated,
			needs_manual_review = EXCLUDED.needs_manual_review,
			created_at = EXCLUDED.created_at
		RETURNING id;`,
		modification.WorkoutID, modification.AthleteID, modification.Date,
		modification.Action, modification.Reason, originalJson, modifiedJson,
		modification.AutoGenerated, modification.NeedsManualReview, modification.CreatedAt,
	)
	if err := row.Scan(&modification.ID); err != nil {
		return nil, false, fmt.Errorf("scan modification id: %w", err)
	}

	return &modification, true, nil
}

// PendingModifications lists unreviewed modifications, optionally
// filtered by athlete and by minimum action severity.
func (r *Repo) PendingModifications(ctx context.Context, athleteID string, minAction Action) (_ []Modification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.pending")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := `SELECT id, workout_id, athlete_id, date, action, reason, original, modified,
			auto_generated, needs_manual_review, reviewed, approved, coach_note, created_at
		FROM workout_modification
		WHERE NOT reviewed`
	args := []any{}
	if athleteID != "" {
		args = append(args, athleteID)
		query += fmt.Sprintf(` AND athlete_id = $%d`, len(args))
	}
	if minAction != "" {
		args = append(args, ActionsAtOrAbove(minAction))
		query += fmt.Sprintf(` AND action = ANY($%d)`, len(args))
	}
	query += ` ORDER BY date;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending modifications: %w", err)
	}
	defer rows.Close()

	var pending []Modification
	for rows.Next() {
		modification, err := scanModification(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, *modification)
	}

	return pending, rows.Err()
}

// Review records the coach decision. The original automated reasoning is
// kept alongside, never replaced.
func (r *Repo) Review(ctx context.Context, modificationID int, approve bool, coachNote string) (_ *Modification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.review")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("modification.id", modificationID))

	row := r.db.QueryRow(
		ctx,
		`UPDATE workout_modification
			SET reviewed = true, approved = $1, coach_note = $2
			WHERE id = $3
		RETURNING id, workout_id, athlete_id, date, action, reason, original, modified,
			auto_generated, needs_manual_review, reviewed, approved, coach_note, created_at;`,
		approve, coachNote, modificationID,
	)

	modification, err := scanModification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrModificationNotFound
		}
		return nil, err
	}

	return modification, nil
}

func scanWorkouts(rows pgx.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.AthleteID, &w.Date, &w.Type, &w.Status,
			&w.DurationMin, &w.DistanceKm, &w.TargetHR, &w.Load, &w.Description,
		); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func scanModification(row pgx.Row) (*Modification, error) {
	var m Modification
	var originalJson, modifiedJson []byte
	if err := row.Scan(
		&m.ID, &m.WorkoutID, &m.AthleteID, &m.Date, &m.Action, &m.Reason,
		&originalJson, &modifiedJson, &m.AutoGenerated, &m.NeedsManualReview,
		&m.Reviewed, &m.Approved, &m.CoachNote, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(originalJson, &m.Original); err != nil {
		return nil, fmt.Errorf("unmarshal original workout: %w", err)
	}
	if len(modifiedJson) > 0 {
		m.Modified = &Workout{}
		if err := json.Unmarshal(modifiedJson, m.Modified); err != nil {
			return nil, fmt.Errorf("unmarshal modified workout: %w", err)
		}
	}
	return &m, nil
}
