package threshold

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

var ErrTestNotFound = errors.New("threshold test not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores the raw test together with its derived result. Tests are
// append-only; a newer test supersedes the previous one on read.
func (r *Repo) Add(ctx context.Context, test Test, result Result) (_ *Test, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.threshold.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", test.AthleteID))

	stagesJson, err := json.Marshal(test.Stages)
	if err != nil {
		return nil, fmt.Errorf("marshal stages: %w", err)
	}
	resultJson, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	if test.TakenAt.IsZero() {
		test.TakenAt = time.Now()
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO threshold_test (athlete_id, stages, manual_stage, result, taken_at)
			VALUES ($1, $2, $3, $4, $5)
		RETURNING id;`,
		test.AthleteID, stagesJson, test.ManualThresholdStage, resultJson, test.TakenAt,
	)
	if err := row.Scan(&test.ID); err != nil {
		return nil, fmt.Errorf("scan test id: %w", err)
	}

	span.SetAttributes(attribute.Int("test.id", test.ID))
	return &test, nil
}

// LatestByAthlete returns the most recent test and its result.
func (r *Repo) LatestByAthlete(ctx context.Context, athleteID string) (_ *Test, _ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.threshold.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", athleteID))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, athlete_id, stages, manual_stage, result, taken_at
			FROM threshold_test
			WHERE athlete_id = $1
			ORDER BY taken_at DESC
			LIMIT 1;`,
		athleteID,
	)

	var test Test
	var stagesJson, resultJson []byte
	if err := row.Scan(
		&test.ID, &test.AthleteID, &stagesJson, &test.ManualThresholdStage, &resultJson, &test.TakenAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrTestNotFound
		}
		return nil, nil, fmt.Errorf("scan test: %w", err)
	}

	if err := json.Unmarshal(stagesJson, &test.Stages); err != nil {
		return nil, nil, fmt.Errorf("unmarshal stages for test %d: %w", test.ID, err)
	}
	var result Result
	if err := json.Unmarshal(resultJson, &result); err != nil {
		return nil, nil, fmt.Errorf("unmarshal result for test %d: %w", test.ID, err)
	}

	return &test, &result, nil
}
