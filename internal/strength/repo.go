package strength

import (
	"context"
	"fmt"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddSession(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.addSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", session.AthleteID))

	if session.Date.IsZero() {
		session.Date = time.Now()
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO strength_session (athlete_id, exercise, date, sets, reps, load_kg)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		session.AthleteID, session.Exercise, session.Date,
		session.Sets, session.Reps, session.LoadKg,
	)
	if err := row.Scan(&session.ID); err != nil {
		return nil, fmt.Errorf("scan strength session id: %w", err)
	}

	return &session, nil
}

// SessionsForExercise returns the trailing sessions for one exercise in
// chronological order.
func (r *Repo) SessionsForExercise(ctx context.Context, athleteID, exercise string, limit int) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.sessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, athlete_id, exercise, date, sets, reps, load_kg
			FROM strength_session
			WHERE athlete_id = $1 AND exercise = $2
			ORDER BY date DESC
			LIMIT $3;`,
		athleteID, exercise, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query strength sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.AthleteID, &s.Exercise, &s.Date, &s.Sets, &s.Reps, &s.LoadKg); err != nil {
			return nil, fmt.Errorf("scan strength session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// query is newest first, analysis wants oldest first
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}

	return sessions, nil
}

// Exercises lists the distinct exercises an athlete has logged.
func (r *Repo) Exercises(ctx context.Context, athleteID string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.exercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT exercise FROM strength_session WHERE athlete_id = $1 ORDER BY exercise;`,
		athleteID,
	)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []string
	for rows.Next() {
		var exercise string
		if err := rows.Scan(&exercise); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, exercise)
	}

	return exercises, rows.Err()
}
