package injury

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=injury_test

type injuriesRepo interface {
	Open(ctx context.Context, athleteID string, status Status, severity Severity) ([]Assessment, error)
	UpdateStatus(ctx context.Context, assessmentID int, to Status) (*Assessment, error)
	SubstitutionsForAthlete(ctx context.Context, athleteID string, from time.Time) ([]Substitution, error)
}

type Handler struct {
	repo injuriesRepo
}

func NewHandler(repo injuriesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

// HandleOpen lists non-resolved injury assessments, optionally narrowed
// by athlete, status or severity.
func (handler *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.injury.open")
	defer span.End()

	status := Status(r.URL.Query().Get("status"))
	switch status {
	case "", StatusActive, StatusMonitoring:
	default:
		http.Error(w, "error, unknown status", http.StatusBadRequest)
		return
	}

	severity := Severity(r.URL.Query().Get("severity"))
	switch severity {
	case "", SeverityMild, SeverityModerate, SeveritySevere:
	default:
		http.Error(w, "error, unknown severity", http.StatusBadRequest)
		return
	}

	open, err := handler.repo.Open(ctx, r.URL.Query().Get("athleteId"), status, severity)
	if err != nil {
		log.Errorf("failed to get open injuries: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if open == nil {
		open = []Assessment{}
	}

	respJson, err := json.Marshal(open)
	if err != nil {
		log.Errorf("failed to marshal open injuries: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

type statusUpdateRequest struct {
	Status Status `json:"status"`
}

// HandleUpdateStatus moves an assessment through its lifecycle. Resolution
// happens only through this endpoint, never automatically.
func (handler *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.injury.updateStatus")
	defer span.End()

	vars := mux.Vars(r)
	assessmentID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, invalid assessment id", http.StatusBadRequest)
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("injury status update, unmarshal json params: %s", err)
		http.Error(w, "status update failed", http.StatusBadRequest)
		return
	}

	switch req.Status {
	case StatusActive, StatusMonitoring, StatusResolved:
	default:
		http.Error(w, "error, unknown status", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.UpdateStatus(ctx, assessmentID, req.Status)
	if err != nil {
		if errors.Is(err, ErrAssessmentNotFound) {
			http.Error(w, "assessment not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrInvalidTransition) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.Errorf("failed to update injury %d status: %s", assessmentID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal assessment: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleSubstitutions lists the upcoming cross-training substitutions for
// an athlete.
func (handler *Handler) HandleSubstitutions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.injury.substitutions")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteId"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	from := time.Now().AddDate(0, 0, -1)
	substitutions, err := handler.repo.SubstitutionsForAthlete(ctx, athleteID, from)
	if err != nil {
		log.Errorf("failed to get substitutions for %s: %s", athleteID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if substitutions == nil {
		substitutions = []Substitution{}
	}

	respJson, err := json.Marshal(substitutions)
	if err != nil {
		log.Errorf("failed to marshal substitutions: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
