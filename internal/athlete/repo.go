package athlete

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

var (
	ErrAthleteNotFound = errors.New("athlete not found")
	ErrNoRaceResults   = errors.New("no race results")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, a Athlete) (_ *Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", a.ID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO athlete
			(id, name, age, weekly_volume_km, training_age_years, max_hr, resting_hr,
			classification, methodology, lactate_meter, coach_supervised, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		a.ID, a.Name, a.Age, a.WeeklyVolumeKm, a.TrainingAgeYears, a.MaxHR, a.RestingHR,
		a.Classification, a.Methodology, a.LactateMeter, a.CoachSupervised, a.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("insert athlete: %w", err)
	}

	return &a, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", id))

	row := r.db.QueryRow(
		ctx,
		`SELECT
			id, name, age, weekly_volume_km, training_age_years,
			max_hr, resting_hr, classification, methodology,
			lactate_meter, coach_supervised, active
		FROM athlete WHERE id = $1;`,
		id,
	)

	var a Athlete
	if err := row.Scan(
		&a.ID, &a.Name, &a.Age, &a.WeeklyVolumeKm, &a.TrainingAgeYears,
		&a.MaxHR, &a.RestingHR, &a.Classification, &a.Methodology,
		&a.LactateMeter, &a.CoachSupervised, &a.Active,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAthleteNotFound
		}
		return nil, fmt.Errorf("scan athlete: %w", err)
	}

	return &a, nil
}

func (r *Repo) ListActive(ctx context.Context) (_ []Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.listactive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, name, age, weekly_volume_km, training_age_years,
			max_hr, resting_hr, classification, methodology,
			lactate_meter, coach_supervised, active
		FROM athlete WHERE active IS TRUE ORDER BY id;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var athletes []Athlete
	for rows.Next() {
		var a Athlete
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Age, &a.WeeklyVolumeKm, &a.TrainingAgeYears,
			&a.MaxHR, &a.RestingHR, &a.Classification, &a.Methodology,
			&a.LactateMeter, &a.CoachSupervised, &a.Active,
		); err != nil {
			return nil, fmt.Errorf("scan athlete: %w", err)
		}
		athletes = append(athletes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if athletes == nil {
		athletes = make([]Athlete, 0)
	}
	return athletes, nil
}

// LatestRace returns the most recent race result for the athlete.
func (r *Repo) LatestRace(ctx context.Context, athleteID string) (_ *RaceResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.latestrace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", athleteID))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, athlete_id, distance_meters, duration_seconds, raced_at
			FROM race_result
			WHERE athlete_id = $1
			ORDER BY raced_at DESC
			LIMIT 1;`,
		athleteID,
	)

	var race RaceResult
	if err := row.Scan(
		&race.ID, &race.AthleteID, &race.DistanceMeters, &race.DurationSeconds, &race.RacedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRaceResults
		}
		return nil, fmt.Errorf("scan race result: %w", err)
	}

	return &race, nil
}

func (r *Repo) AddRace(ctx context.Context, race RaceResult) (_ *RaceResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.addrace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", race.AthleteID))

	if race.RacedAt.IsZero() {
		race.RacedAt = time.Now()
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO race_result (athlete_id, distance_meters, duration_seconds, raced_at)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		race.AthleteID, race.DistanceMeters, race.DurationSeconds, race.RacedAt,
	)

	if err := row.Scan(&race.ID); err != nil {
		return nil, fmt.Errorf("scan race result id: %w", err)
	}

	span.SetAttributes(attribute.Int("race.id", race.ID))
	return &race, nil
}
