package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/readiness"
	"github.com/strideworks/coachengine/internal/telemetry/metrics"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const recomputeTimeout = 10 * time.Minute

type athletesLister interface {
	ListActive(ctx context.Context) ([]athlete.Athlete, error)
}

type recomputer interface {
	Recompute(ctx context.Context, athleteID string, day time.Time) (*readiness.Assessment, *readiness.LoadRecord, error)
}

// AthleteResult is one athlete's slice of the batch summary.
type AthleteResult struct {
	AthleteID string `json:"athleteId"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// Summary reports one full recompute run, per-athlete. One failing
// athlete never stops the rest of the run.
type Summary struct {
	Day       time.Time       `json:"day"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Results   []AthleteResult `json:"results"`
	Took      string          `json:"took"`
}

// Recomputer rebuilds load records and baselines for all active athletes.
// Every write underneath is an upsert by (athlete, date), so a crashed or
// repeated run converges to the same state.
type Recomputer struct {
	athletes   athletesLister
	aggregator recomputer
	metrics    *metrics.Manager
	cron       *cron.Cron
}

func NewRecomputer(athletes athletesLister, aggregator recomputer, metricsManager *metrics.Manager) *Recomputer {
	return &Recomputer{
		athletes:   athletes,
		aggregator: aggregator,
		metrics:    metricsManager,
	}
}

// Run recomputes the given day for every active athlete.
func (r *Recomputer) Run(ctx context.Context, day time.Time) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "batch.recompute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	started := time.Now()
	day = readiness.DayOf(day)
	span.SetAttributes(attribute.String("batch.day", day.Format(time.DateOnly)))

	athletes, err := r.athletes.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active athletes: %w", err)
	}

	summary := &Summary{
		Day:     day,
		Total:   len(athletes),
		Results: make([]AthleteResult, 0, len(athletes)),
	}

	for _, a := range athletes {
		result := AthleteResult{AthleteID: a.ID, OK: true}
		if _, _, err := r.aggregator.Recompute(ctx, a.ID, day); err != nil {
			log.Errorf("batch recompute failed for %s: %s", a.ID, err)
			result.OK = false
			result.Error = err.Error()
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, result)
	}

	took := time.Since(started)
	summary.Took = took.String()
	r.metrics.HistBatchRecomputeDuration.Observe(took.Seconds())

	log.Debugf("batch recompute for %s done: %d ok, %d failed, took %s",
		day.Format(time.DateOnly), summary.Succeeded, summary.Failed, took)

	return summary, nil
}

// StartSchedule runs the recompute on the given cron schedule. An empty
// schedule means the external scheduler is the only trigger.
func (r *Recomputer) StartSchedule(schedule string) error {
	if schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
		defer cancel()
		if _, err := r.Run(ctx, time.Now()); err != nil {
			log.Errorf("scheduled batch recompute failed: %s", err)
		}
	})
	if err != nil {
		return fmt.Errorf("add cron schedule [%s]: %w", schedule, err)
	}

	c.Start()
	r.cron = c
	log.Debugf("batch recompute scheduled: %s", schedule)
	return nil
}

// Stop halts the cron scheduler, waiting for a running job to finish.
func (r *Recomputer) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}
