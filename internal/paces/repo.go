package paces

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

var ErrFieldTestNotFound = errors.New("field test not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// AddFieldTest stores a field test. Like lab tests these are append-only.
func (r *Repo) AddFieldTest(ctx context.Context, test FieldTest) (_ *FieldTest, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.paces.addFieldTest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", test.AthleteID))

	trialsJson, err := json.Marshal(test.Trials)
	if err != nil {
		return nil, fmt.Errorf("marshal trials: %w", err)
	}

	if test.TakenAt.IsZero() {
		test.TakenAt = time.Now()
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO field_test (athlete_id, trials, avg_hr, taken_at)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		test.AthleteID, trialsJson, test.AvgHR, test.TakenAt,
	)
	if err := row.Scan(&test.ID); err != nil {
		return nil, fmt.Errorf("scan field test id: %w", err)
	}

	span.SetAttributes(attribute.Int("fieldTest.id", test.ID))
	return &test, nil
}

// LatestByAthlete returns the most recent field test for the athlete.
func (r *Repo) LatestByAthlete(ctx context.Context, athleteID string) (_ *FieldTest, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.paces.latestFieldTest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", athleteID))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, athlete_id, trials, avg_hr, taken_at
			FROM field_test
			WHERE athlete_id = $1
			ORDER BY taken_at DESC
			LIMIT 1;`,
		athleteID,
	)

	var test FieldTest
	var trialsJson []byte
	if err := row.Scan(&test.ID, &test.AthleteID, &trialsJson, &test.AvgHR, &test.TakenAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFieldTestNotFound
		}
		return nil, fmt.Errorf("scan field test: %w", err)
	}

	if err := json.Unmarshal(trialsJson, &test.Trials); err != nil {
		return nil, fmt.Errorf("unmarshal trials for field test %d: %w", test.ID, err)
	}

	return &test, nil
}
