package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/readiness"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	log "github.com/sirupsen/logrus"
)

type submitter interface {
	Submit(ctx context.Context, metrics readiness.DailyMetrics) (*Response, error)
}

type Handler struct {
	service submitter
}

func NewHandler(service submitter) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleSubmit ingests one daily check-in. Valid metrics always get a 200,
// even when downstream actions partially failed; those come back as
// warnings in the response body.
func (handler *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.checkin.submit")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var metrics readiness.DailyMetrics
	if err := json.NewDecoder(r.Body).Decode(&metrics); err != nil {
		log.Tracef("check-in, unmarshal json params: %s", err)
		http.Error(w, "check-in failed", http.StatusBadRequest)
		return
	}

	if reason, ok := validate(metrics); !ok {
		http.Error(w, "error, "+reason, http.StatusBadRequest)
		return
	}

	response, err := handler.service.Submit(ctx, metrics)
	if err != nil {
		if errors.Is(err, athlete.ErrAthleteNotFound) {
			http.Error(w, "athlete not found", http.StatusNotFound)
			return
		}
		log.Errorf("check-in failed for %s: %s", metrics.AthleteID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(response)
	if err != nil {
		log.Errorf("failed to marshal check-in response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func validate(metrics readiness.DailyMetrics) (string, bool) {
	switch {
	case metrics.AthleteID == "":
		return "athlete id empty", false
	case metrics.HRV < 0 || metrics.RestingHR < 0:
		return "hrv and resting hr must not be negative", false
	case metrics.SleepHours < 0 || metrics.SleepHours > 24:
		return "sleep hours out of range", false
	case outOfScale(metrics.Soreness) || outOfScale(metrics.Stress) || outOfScale(metrics.Mood):
		return "wellness inputs must be on a 0-10 scale", false
	case metrics.Pain != nil && outOfScale(metrics.Pain.Level):
		return "pain level must be on a 0-10 scale", false
	default:
		return "", true
	}
}

func outOfScale(v float64) bool {
	return v < 0 || v > 10
}
