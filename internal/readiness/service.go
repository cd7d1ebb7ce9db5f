package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/strideworks/coachengine/internal/config"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type store interface {
	UpsertMetrics(ctx context.Context, metrics DailyMetrics) (*DailyMetrics, error)
	MetricsForDay(ctx context.Context, athleteID string, day time.Time) (*DailyMetrics, error)
	MetricsWindow(ctx context.Context, athleteID string, from, to time.Time) ([]DailyMetrics, error)
	SessionsThrough(ctx context.Context, athleteID string, through time.Time) ([]TrainingSession, error)
	UpsertLoadRecord(ctx context.Context, record LoadRecord) error
	UpsertAssessment(ctx context.Context, assessment Assessment) error
}

// Aggregator owns the readiness computation for a single check-in or a
// batch recompute. All derived records are upserted by (athlete, date), so
// re-running it for the same day converges instead of duplicating.
type Aggregator struct {
	repo   store
	scorer *Scorer
}

func NewAggregator(repo store, cfg config.EngineConfig) *Aggregator {
	return &Aggregator{
		repo:   repo,
		scorer: NewScorer(cfg),
	}
}

// Process ingests a day's check-in and produces the assessment and load
// record for that day.
func (a *Aggregator) Process(ctx context.Context, metrics DailyMetrics) (_ *Assessment, _ *LoadRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "readiness.process")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", metrics.AthleteID))

	if metrics.Date.IsZero() {
		metrics.Date = time.Now()
	}
	metrics.Date = DayOf(metrics.Date)

	stored, err := a.repo.UpsertMetrics(ctx, metrics)
	if err != nil {
		return nil, nil, fmt.Errorf("upsert metrics: %w", err)
	}

	return a.assess(ctx, *stored)
}

// Recompute rebuilds the derived records for an athlete and day from the
// stored history, without new input. Used by the nightly batch. A day with
// no check-in still gets a load record; the assessment needs metrics.
func (a *Aggregator) Recompute(ctx context.Context, athleteID string, day time.Time) (_ *Assessment, _ *LoadRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "readiness.recompute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", athleteID))

	day = DayOf(day)

	metrics, err := a.repo.MetricsForDay(ctx, athleteID, day)
	if err != nil {
		if err != ErrMetricsNotFound {
			return nil, nil, fmt.Errorf("get metrics: %w", err)
		}
		// load only, no assessment possible
		record, err := a.computeAndStoreLoad(ctx, athleteID, day)
		if err != nil {
			return nil, nil, err
		}
		return nil, record, nil
	}

	return a.assess(ctx, *metrics)
}

func (a *Aggregator) assess(ctx context.Context, metrics DailyMetrics) (*Assessment, *LoadRecord, error) {
	day := DayOf(metrics.Date)

	// trailing window, the day itself excluded so a new point is compared
	// against its history, not against itself
	windowFrom := day.AddDate(0, 0, -baselineWindowDays)
	windowTo := day.AddDate(0, 0, -1)
	window, err := a.repo.MetricsWindow(ctx, metrics.AthleteID, windowFrom, windowTo)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics window: %w", err)
	}

	hrvValues := make([]float64, 0, len(window))
	rhrValues := make([]float64, 0, len(window))
	for _, m := range window {
		hrvValues = append(hrvValues, m.HRV)
		rhrValues = append(rhrValues, m.RestingHR)
	}
	hrvBaseline := ComputeBaseline(hrvValues)
	rhrBaseline := ComputeBaseline(rhrValues)

	record, err := a.computeAndStoreLoad(ctx, metrics.AthleteID, day)
	if err != nil {
		return nil, nil, err
	}

	assessment := a.scorer.Assess(metrics, hrvBaseline, rhrBaseline, *record)
	if err := a.repo.UpsertAssessment(ctx, assessment); err != nil {
		return nil, nil, fmt.Errorf("upsert assessment: %w", err)
	}

	return &assessment, record, nil
}

func (a *Aggregator) computeAndStoreLoad(ctx context.Context, athleteID string, day time.Time) (*LoadRecord, error) {
	sessions, err := a.repo.SessionsThrough(ctx, athleteID, day)
	if err != nil {
		return nil, fmt.Errorf("sessions: %w", err)
	}

	record := ComputeLoad(athleteID, sessions, day)
	if err := a.repo.UpsertLoadRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("upsert load record: %w", err)
	}

	return &record, nil
}
