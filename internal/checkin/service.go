package checkin

import (
	"context"
	"fmt"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/injury"
	"github.com/strideworks/coachengine/internal/plan"
	"github.com/strideworks/coachengine/internal/readiness"
	"github.com/strideworks/coachengine/internal/telemetry/metrics"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type athletesProvider interface {
	Get(ctx context.Context, id string) (*athlete.Athlete, error)
}

type aggregator interface {
	Process(ctx context.Context, metrics readiness.DailyMetrics) (*readiness.Assessment, *readiness.LoadRecord, error)
}

type decisionEngine interface {
	Run(ctx context.Context, a athlete.Athlete, assessment readiness.Assessment, load readiness.LoadRecord) ([]plan.Decision, error)
}

type cascadeRunner interface {
	Run(ctx context.Context, a athlete.Athlete, day readiness.Assessment) (*injury.Result, error)
}

// Response is the synchronous check-in answer: the day's readiness output
// plus a summary of everything the engine did with it. Downstream
// failures show up in Warnings, never as a failed submission.
type Response struct {
	Assessment readiness.Assessment `json:"assessment"`
	Load       readiness.LoadRecord `json:"load"`
	Decisions  []plan.Decision      `json:"decisions,omitempty"`
	Cascade    *injury.Result       `json:"cascade,omitempty"`
	Warnings   []string             `json:"warnings,omitempty"`
}

// Service wires a check-in submission through the whole decision chain:
// aggregate readiness, run the workout decision engine, fire the injury
// cascade when the day's flags qualify.
type Service struct {
	athletes   athletesProvider
	aggregator aggregator
	engine     decisionEngine
	cascade    cascadeRunner
	metrics    *metrics.Manager
}

func NewService(
	athletes athletesProvider,
	agg aggregator,
	engine decisionEngine,
	cascade cascadeRunner,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		athletes:   athletes,
		aggregator: agg,
		engine:     engine,
		cascade:    cascade,
		metrics:    metricsManager,
	}
}

// Submit ingests one daily check-in. Once the metrics are stored and
// scored the submission has succeeded; engine or cascade trouble degrades
// the response to warnings.
func (s *Service) Submit(ctx context.Context, dailyMetrics readiness.DailyMetrics) (_ *Response, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "checkin.submit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete.id", dailyMetrics.AthleteID))

	a, err := s.athletes.Get(ctx, dailyMetrics.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("get athlete: %w", err)
	}

	assessment, load, err := s.aggregator.Process(ctx, dailyMetrics)
	if err != nil {
		return nil, fmt.Errorf("process metrics: %w", err)
	}

	s.metrics.CounterCheckins.Inc()
	for _, flag := range assessment.RedFlags {
		s.metrics.CounterRedFlags.WithLabelValues(flag.Kind).Inc()
	}

	response := &Response{
		Assessment: *assessment,
		Load:       *load,
	}

	decisions, err := s.engine.Run(ctx, *a, *assessment, *load)
	if err != nil {
		log.Errorf("decision engine failed for %s: %s", a.ID, err)
		response.Warnings = append(response.Warnings,
			fmt.Sprintf("workout decisions incomplete: %s", err))
	}
	response.Decisions = decisions

	if injury.ShouldTrigger(*assessment) {
		cascadeResult, err := s.cascade.Run(ctx, *a, *assessment)
		if err != nil {
			log.Errorf("injury cascade failed for %s: %s", a.ID, err)
			response.Warnings = append(response.Warnings,
				fmt.Sprintf("injury cascade incomplete: %s", err))
		}
		if cascadeResult != nil {
			response.Cascade = cascadeResult
			response.Warnings = append(response.Warnings, cascadeResult.Warnings...)
		}
	}

	return response, nil
}
