package readiness

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=readiness_test

type readinessRepo interface {
	AssessmentHistory(ctx context.Context, athleteID string, days int) ([]Assessment, error)
	ACWRWarnings(ctx context.Context, athleteID string) ([]LoadRecord, error)
	AddSession(ctx context.Context, session TrainingSession) (*TrainingSession, error)
}

type Handler struct {
	repo readinessRepo
}

func NewHandler(repo readinessRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

const defaultHistoryDays = 28

// HandleHistory returns the trailing readiness assessments for an athlete.
func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.readiness.history")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteId"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	days := defaultHistoryDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			http.Error(w, "error, invalid days param", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	history, err := handler.repo.AssessmentHistory(ctx, athleteID, days)
	if err != nil {
		log.Errorf("failed to get readiness history for %s: %s", athleteID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(history)
	if err != nil {
		log.Errorf("failed to marshal readiness history: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleACWRWarnings lists athletes whose load ratio left the optimal
// zone, optionally filtered by athlete.
func (handler *Handler) HandleACWRWarnings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.readiness.acwrWarnings")
	defer span.End()

	warnings, err := handler.repo.ACWRWarnings(ctx, r.URL.Query().Get("athleteId"))
	if err != nil {
		log.Errorf("failed to get acwr warnings: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if warnings == nil {
		warnings = []LoadRecord{}
	}

	respJson, err := json.Marshal(warnings)
	if err != nil {
		log.Errorf("failed to marshal acwr warnings: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleAddSession records a completed training session's load.
func (handler *Handler) HandleAddSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.readiness.addSession")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session TrainingSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("new training session, unmarshal json params: %s", err)
		http.Error(w, "add training session failed", http.StatusBadRequest)
		return
	}

	if session.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}
	if session.Load < 0 {
		http.Error(w, "error, session load must not be negative", http.StatusBadRequest)
		return
	}
	if session.Date.After(time.Now().Add(24 * time.Hour)) {
		http.Error(w, "error, session date in the future", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.AddSession(ctx, session)
	if err != nil {
		log.Errorf("failed to store training session for %s: %s", session.AthleteID, err)
		http.Error(w, "error, failed to store training session", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal training session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}
