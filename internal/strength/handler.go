package strength

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=strength_test

// analysisWindowSessions bounds the trailing window the analyzer sees.
const analysisWindowSessions = 12

type strengthRepo interface {
	AddSession(ctx context.Context, session Session) (*Session, error)
	SessionsForExercise(ctx context.Context, athleteID, exercise string, limit int) ([]Session, error)
	Exercises(ctx context.Context, athleteID string) ([]string, error)
}

type Handler struct {
	repo     strengthRepo
	analyzer *Analyzer
}

func NewHandler(repo strengthRepo, analyzer *Analyzer) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: analyzer,
	}
}

// HandleAddSession logs one strength workout.
func (handler *Handler) HandleAddSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.strength.addSession")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("new strength session, unmarshal json params: %s", err)
		http.Error(w, "add strength session failed", http.StatusBadRequest)
		return
	}

	if session.AthleteID == "" || session.Exercise == "" {
		http.Error(w, "error, athlete id or exercise empty", http.StatusBadRequest)
		return
	}
	if session.Sets <= 0 || session.Reps <= 0 || session.LoadKg <= 0 {
		http.Error(w, "error, sets, reps and load must be positive", http.StatusBadRequest)
		return
	}
	if session.Date.After(time.Now().Add(24 * time.Hour)) {
		http.Error(w, "error, session date in the future", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.AddSession(ctx, session)
	if err != nil {
		log.Errorf("failed to store strength session for %s: %s", session.AthleteID, err)
		http.Error(w, "error, failed to store strength session", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal strength session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

// HandleAnalysis runs the plateau analyzer for one exercise.
func (handler *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.strength.analysis")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteId"]
	exercise := vars["exercise"]
	if athleteID == "" || exercise == "" {
		http.Error(w, "error, athlete id or exercise empty", http.StatusBadRequest)
		return
	}

	sessions, err := handler.repo.SessionsForExercise(ctx, athleteID, exercise, analysisWindowSessions)
	if err != nil {
		log.Errorf("failed to get strength sessions for %s/%s: %s", athleteID, exercise, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	analysis := handler.analyzer.Analyze(athleteID, exercise, sessions)

	respJson, err := json.Marshal(analysis)
	if err != nil {
		log.Errorf("failed to marshal strength analysis: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleOverview runs the analyzer across every exercise the athlete logs.
func (handler *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.strength.overview")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteId"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	exercises, err := handler.repo.Exercises(ctx, athleteID)
	if err != nil {
		log.Errorf("failed to list exercises for %s: %s", athleteID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	analyses := make([]Analysis, 0, len(exercises))
	for _, exercise := range exercises {
		sessions, err := handler.repo.SessionsForExercise(ctx, athleteID, exercise, analysisWindowSessions)
		if err != nil {
			log.Errorf("failed to get strength sessions for %s/%s: %s", athleteID, exercise, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		analyses = append(analyses, handler.analyzer.Analyze(athleteID, exercise, sessions))
	}

	respJson, err := json.Marshal(analyses)
	if err != nil {
		log.Errorf("failed to marshal strength overview: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
